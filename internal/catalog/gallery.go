package catalog

// Gallery is the ordered set of distinct primary image URLs of a result set.
// The zero value is an empty gallery.
type Gallery struct {
	urls []string
}

// NewGallery collects the first link of every record and drops repeats,
// keeping the first occurrence. Records without links contribute "".
func NewGallery(records []Record) Gallery {
	if len(records) == 0 {
		return Gallery{}
	}

	seen := make(map[string]struct{}, len(records))
	urls := make([]string, 0, len(records))
	for _, r := range records {
		href := r.PrimaryHref()
		if _, ok := seen[href]; ok {
			continue
		}
		seen[href] = struct{}{}
		urls = append(urls, href)
	}
	return Gallery{urls: urls}
}

// URLs returns a copy of the gallery contents.
func (g Gallery) URLs() []string {
	return append([]string{}, g.urls...)
}

func (g Gallery) Len() int { return len(g.urls) }

func (g Gallery) At(i int) string { return g.urls[i] }
