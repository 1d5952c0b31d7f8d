package session

import (
	"errors"

	"github.com/pders01/lumen/internal/catalog"
)

// Field identifies one of the search inputs.
type Field int

const (
	FieldQuery Field = iota
	FieldYearStart
	FieldYearEnd
)

func (f Field) String() string {
	switch f {
	case FieldQuery:
		return "query"
	case FieldYearStart:
		return "year_start"
	case FieldYearEnd:
		return "year_end"
	default:
		return "unknown"
	}
}

// State is the transient state of one search session. It is a value: every
// transition goes through Apply and yields a new State, slices held by an
// older State are never written to.
type State struct {
	query     string
	yearStart string
	yearEnd   string
	loading   bool

	results   []catalog.Record
	gallery   catalog.Gallery
	totalHits int

	outcome      catalog.Outcome
	errorVisible bool
}

func (s State) Query() string     { return s.query }
func (s State) YearStart() string { return s.yearStart }
func (s State) YearEnd() string   { return s.yearEnd }
func (s State) Loading() bool     { return s.loading }
func (s State) TotalHits() int    { return s.totalHits }

// Value returns the current input for f.
func (s State) Value(f Field) string {
	switch f {
	case FieldYearStart:
		return s.yearStart
	case FieldYearEnd:
		return s.yearEnd
	default:
		return s.query
	}
}

// Results returns the current result set.
func (s State) Results() []catalog.Record {
	return append([]catalog.Record(nil), s.results...)
}

func (s State) ResultCount() int { return len(s.results) }

func (s State) Gallery() catalog.Gallery { return s.gallery }

// Outcome is the last failure outcome, or nil after a successful search.
func (s State) Outcome() catalog.Outcome { return s.outcome }

// ErrorVisible reports whether the error banner should be shown.
func (s State) ErrorVisible() bool { return s.errorVisible && s.outcome != nil }

// Message is the user-facing error text, empty when nothing is shown.
func (s State) Message() string {
	if !s.ErrorVisible() {
		return ""
	}
	return s.outcome.Message()
}

// CanSubmit reports whether a search may be started: the query is not
// empty and no request is in flight.
func (s State) CanSubmit() bool {
	return s.query != "" && !s.loading
}

// Request builds the catalog query from the current inputs.
func (s State) Request() catalog.Query {
	return catalog.Query{
		Text:      s.query,
		YearStart: s.yearStart,
		YearEnd:   s.yearEnd,
	}
}

// Event is an input to Apply.
type Event interface {
	event()
}

// Edit replaces the value of one input field.
type Edit struct {
	Field Field
	Value string
}

// Submitted starts a search with the current inputs.
type Submitted struct{}

// Settled carries the outcome of the request started by the Submitted event
// with the same generation.
type Settled struct {
	Generation uint64
	Outcome    catalog.Outcome
}

// Dismissed hides the error banner.
type Dismissed struct{}

// Reset drops everything and returns to the initial state.
type Reset struct{}

func (Edit) event()      {}
func (Submitted) event() {}
func (Settled) event()   {}
func (Dismissed) event() {}
func (Reset) event()     {}

var errNoOutcome = errors.New("search finished without an outcome")

// Apply is the only transition function for State.
func Apply(s State, e Event) State {
	switch e := e.(type) {
	case Edit:
		switch e.Field {
		case FieldQuery:
			s.query = e.Value
		case FieldYearStart:
			s.yearStart = e.Value
		case FieldYearEnd:
			s.yearEnd = e.Value
		}

	case Submitted:
		if !s.CanSubmit() {
			return s
		}
		s.errorVisible = false
		s.loading = true

	case Settled:
		s = settle(s, e.Outcome)

	case Dismissed:
		s.errorVisible = false

	case Reset:
		return State{}
	}
	return s
}

func settle(s State, outcome catalog.Outcome) State {
	s.loading = false
	s.query, s.yearStart, s.yearEnd = "", "", ""

	if outcome == nil {
		outcome = catalog.TransportFailure{Err: errNoOutcome}
	}

	switch o := outcome.(type) {
	case catalog.Success:
		s.results = cloneRecords(o.Items)
		s.gallery = catalog.NewGallery(s.results)
		s.totalHits = o.TotalHits
		s.outcome = nil
		s.errorVisible = false
	default:
		s.results = nil
		s.gallery = catalog.Gallery{}
		s.totalHits = 0
		s.outcome = o
		s.errorVisible = true
	}
	return s
}

func cloneRecords(records []catalog.Record) []catalog.Record {
	out := make([]catalog.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
