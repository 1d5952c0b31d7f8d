package search

import (
	"github.com/pders01/lumen/internal/catalog"
	"github.com/pders01/lumen/internal/debuglog"
)

// MinQueryLength is the shortest filter text that is evaluated.
const MinQueryLength = 2

// Hit points at a record of the indexed result set.
type Hit struct {
	Index   int
	Score   float64
	Matches []Match
}

// Filterer narrows the current result set without a new catalog request.
type Filterer interface {
	Filter(query string, limit int) ([]Hit, error)
	Close() error
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

// New indexes records for local filtering. It prefers an in-memory bleve
// index and falls back to the scoring Engine when the index cannot be built.
func New(records []catalog.Record) Filterer {
	idx, err := NewBleveIndex(records)
	if err != nil {
		debuglog.Warnf("bleve index unavailable, using simple filter: %v", err)
		return NewEngine(records)
	}
	return idx
}
