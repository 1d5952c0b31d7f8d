package catalog

// Record is one search hit as returned by the library's collection API.
// Only the first Data and first Links entry are consulted.
type Record struct {
	Href  string     `json:"href,omitempty"`
	Data  []Metadata `json:"data"`
	Links []Link     `json:"links"`
}

type Metadata struct {
	ID           string   `json:"nasa_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Photographer string   `json:"photographer,omitempty"`
	Location     string   `json:"location,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	DateCreated  string   `json:"date_created"`
	Center       string   `json:"center,omitempty"`
	MediaType    string   `json:"media_type,omitempty"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel,omitempty"`
	Render string `json:"render,omitempty"`
}

// Clone returns a deep copy so callers can hand records across views
// without sharing backing arrays.
func (r Record) Clone() Record {
	out := Record{Href: r.Href}
	if r.Data != nil {
		out.Data = make([]Metadata, len(r.Data))
		for i, d := range r.Data {
			if d.Keywords != nil {
				d.Keywords = append([]string(nil), d.Keywords...)
			}
			out.Data[i] = d
		}
	}
	if r.Links != nil {
		out.Links = append([]Link(nil), r.Links...)
	}
	return out
}

// PrimaryHref is the href of the first link, or "" when the record has none.
func (r Record) PrimaryHref() string {
	if len(r.Links) == 0 {
		return ""
	}
	return r.Links[0].Href
}

type searchResponse struct {
	Collection struct {
		Items    []Record `json:"items"`
		Metadata struct {
			TotalHits int `json:"total_hits"`
		} `json:"metadata"`
	} `json:"collection"`
}
