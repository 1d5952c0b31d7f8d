package catalog

import (
	"errors"
	"strings"
	"time"
)

// ListTitleLength is the number of runes of a title shown in result lists.
const ListTitleLength = 50

// ErrUnrenderable marks a record without metadata or without a preview link.
var ErrUnrenderable = errors.New("record has no metadata or preview link")

// ResultItem holds the display fields of a record.
type ResultItem struct {
	ID           string
	Title        string
	Description  string
	Photographer string
	Location     string
	Keywords     []string
	DateCreated  time.Time
	PreviewHref  string
}

// Normalize extracts the display fields from r. Records that cannot be
// rendered return ErrUnrenderable and should be skipped by the caller.
func Normalize(r Record) (ResultItem, error) {
	if len(r.Data) == 0 || len(r.Links) == 0 {
		return ResultItem{}, ErrUnrenderable
	}

	d := r.Data[0]
	item := ResultItem{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Photographer: d.Photographer,
		Location:     d.Location,
		PreviewHref:  r.Links[0].Href,
	}
	if len(d.Keywords) > 0 {
		item.Keywords = append([]string(nil), d.Keywords...)
	}
	item.DateCreated = parseDate(d.DateCreated)

	return item, nil
}

// ListTitle returns the title cut to ListTitleLength runes.
func (i ResultItem) ListTitle() string {
	return truncate(i.Title, ListTitleLength)
}

// KeywordLine joins keywords the way the detail view prints them.
func (i ResultItem) KeywordLine() string {
	return strings.Join(i.Keywords, " | ")
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
