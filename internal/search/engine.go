package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/lumen/internal/catalog"
)

// Match represents where text was found
type Match struct {
	Field  string // "title", "description", "keywords", ...
	Text   string
	Weight float64
}

// Engine scores records by term matches without building an index.
type Engine struct {
	items   []catalog.ResultItem
	indexes []int
}

// NewEngine keeps the renderable records of the result set.
func NewEngine(records []catalog.Record) *Engine {
	e := &Engine{}
	for i, r := range records {
		item, err := catalog.Normalize(r)
		if err != nil {
			continue
		}
		e.items = append(e.items, item)
		e.indexes = append(e.indexes, i)
	}
	return e
}

// Filter returns matching records, highest score first.
func (e *Engine) Filter(query string, limit int) ([]Hit, error) {
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return []Hit{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []Hit{}, nil
	}

	hits := []Hit{}
	for n, item := range e.items {
		if hit, ok := e.scoreItem(item, terms); ok {
			hit.Index = e.indexes[n]
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (e *Engine) DocCount() (int, error) { return len(e.items), nil }

func (e *Engine) Close() error { return nil }

func (e *Engine) scoreItem(item catalog.ResultItem, terms []string) (Hit, bool) {
	fields := []struct {
		name   string
		text   string
		weight float64
	}{
		{"title", item.Title, 4.0},
		{"keywords", item.KeywordLine(), 3.0},
		{"description", item.Description, 2.0},
		{"location", item.Location, 1.0},
		{"photographer", item.Photographer, 1.0},
	}

	var hit Hit
	for _, f := range fields {
		score := scoreField(f.text, terms, f.weight)
		if score <= 0 {
			continue
		}
		hit.Matches = append(hit.Matches, Match{
			Field:  f.name,
			Text:   truncate(f.text, 100),
			Weight: score,
		})
		hit.Score += score
	}
	return hit, hit.Score > 0
}

// scoreField calculates relevance score for a field
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize breaks text into lower-case terms, skipping single characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if term := current.String(); len([]rune(term)) > 1 {
		terms = append(terms, term)
	}

	return terms
}

// truncate limits text length with ellipsis
func truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-1]) + "…"
}
