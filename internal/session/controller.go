package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/pders01/lumen/internal/catalog"
	"github.com/pders01/lumen/internal/debuglog"
)

// ErrNoSelection is returned by Select for an index outside the result set.
var ErrNoSelection = errors.New("no result at that position")

// Searcher runs one catalog search. *catalog.Client implements it.
type Searcher interface {
	Search(ctx context.Context, q catalog.Query) (catalog.Outcome, error)
}

// Pending is a search that has been started but not settled.
type Pending struct {
	Generation uint64
	Query      catalog.Query
}

// Controller owns the State of one session. Begin, Settle, Edit and the other
// state methods must be called from a single goroutine; Run may be called
// from any goroutine.
type Controller struct {
	searcher   Searcher
	state      State
	generation uint64
}

func NewController(searcher Searcher) *Controller {
	return &Controller{searcher: searcher}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) CanSubmit() bool { return c.state.CanSubmit() }

func (c *Controller) Edit(field Field, value string) {
	c.state = Apply(c.state, Edit{Field: field, Value: value})
}

func (c *Controller) Dismiss() {
	c.state = Apply(c.state, Dismissed{})
}

// Reset returns to the initial state. A search still in flight is
// discarded when it settles.
func (c *Controller) Reset() {
	c.generation++
	c.state = Apply(c.state, Reset{})
}

// Begin starts a search with the current inputs. It returns false when
// submitting is not allowed.
func (c *Controller) Begin() (Pending, bool) {
	if !c.state.CanSubmit() {
		return Pending{}, false
	}
	c.generation++
	p := Pending{
		Generation: c.generation,
		Query:      c.state.Request(),
	}
	c.state = Apply(c.state, Submitted{})
	debuglog.WithFields(map[string]interface{}{
		"generation": p.Generation,
		"year_start": p.Query.YearStart,
		"year_end":   p.Query.YearEnd,
	}).Debugf("search started: %q", p.Query.Text)
	return p, true
}

// Run performs the request for p and always returns a Settled event, also
// when the searcher fails or panics. It does not touch the state.
func (c *Controller) Run(ctx context.Context, p Pending) (settled Settled) {
	settled.Generation = p.Generation

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("search panicked: %v", r)
			debuglog.Errorf("%v", err)
			settled.Outcome = catalog.TransportFailure{Err: err}
		}
	}()

	outcome, err := c.searcher.Search(ctx, p.Query)
	if err != nil {
		debuglog.Errorf("search %q failed: %v", p.Query.Text, err)
		settled.Outcome = catalog.TransportFailure{Err: err}
		return settled
	}
	if outcome == nil {
		settled.Outcome = catalog.TransportFailure{Err: errNoOutcome}
		return settled
	}
	settled.Outcome = outcome
	return settled
}

// Settle applies s unless it belongs to a superseded search. It reports
// whether the state changed.
func (c *Controller) Settle(s Settled) bool {
	if s.Generation != c.generation || !c.state.Loading() {
		debuglog.Debugf("dropping stale search result (generation %d, current %d)", s.Generation, c.generation)
		return false
	}
	c.state = Apply(c.state, s)
	return true
}

// Search runs a whole search synchronously.
func (c *Controller) Search(ctx context.Context) bool {
	p, ok := c.Begin()
	if !ok {
		return false
	}
	return c.Settle(c.Run(ctx, p))
}

// Select hands the i-th record of the current result set to the detail view.
func (c *Controller) Select(i int) (NavigationPayload, error) {
	if i < 0 || i >= len(c.state.results) {
		return NavigationPayload{}, fmt.Errorf("select %d of %d: %w", i, len(c.state.results), ErrNoSelection)
	}
	return NewPayload(c.state.results[i], c.state.gallery), nil
}
