package tui

type View int

const (
	ViewSearch View = iota
	ViewFilter
	ViewDetail
	ViewGallery
)

func (v View) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewFilter:
		return "filter"
	case ViewDetail:
		return "detail"
	case ViewGallery:
		return "gallery"
	default:
		return "unknown"
	}
}
