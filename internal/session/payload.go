package session

import "github.com/pders01/lumen/internal/catalog"

// NavigationPayload is what the detail view receives when a result is
// selected: the record itself and the gallery of the whole result set.
type NavigationPayload struct {
	record  catalog.Record
	gallery catalog.Gallery
}

func NewPayload(record catalog.Record, gallery catalog.Gallery) NavigationPayload {
	return NavigationPayload{
		record:  record.Clone(),
		gallery: gallery,
	}
}

// Record returns a copy of the selected record.
func (p NavigationPayload) Record() catalog.Record { return p.record.Clone() }

func (p NavigationPayload) Gallery() catalog.Gallery { return p.gallery }

// Item normalizes the selected record for rendering.
func (p NavigationPayload) Item() (catalog.ResultItem, error) {
	return catalog.Normalize(p.record)
}
