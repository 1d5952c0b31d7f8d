package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/lumen/internal/catalog"
)

type bleveIndex struct {
	idx bleve.Index
}

// NewBleveIndex builds a memory-only index over records. Document IDs are
// the record positions, so hits map straight back into the result set.
func NewBleveIndex(records []catalog.Record) (Filterer, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	batch := idx.NewBatch()
	for i, r := range records {
		item, err := catalog.Normalize(r)
		if err != nil {
			continue
		}
		if err := batch.Index(docID(i), map[string]any{
			"title":        item.Title,
			"description":  item.Description,
			"keywords":     item.Keywords,
			"location":     item.Location,
			"photographer": item.Photographer,
		}); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing record %d: %w", i, err)
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing results: %w", err)
		}
	}

	return &bleveIndex{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.IncludeTermVectors = true

	text := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = false
		return fm
	}

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", text())
	dm.AddFieldMappingsAt("keywords", text())
	dm.AddFieldMappingsAt("location", text())
	dm.AddFieldMappingsAt("photographer", text())

	im.DefaultMapping = dm
	return im
}

var fieldBoosts = []struct {
	field string
	boost float64
}{
	{"title", 4.0},
	{"keywords", 3.0},
	{"description", 2.0},
	{"location", 1.0},
	{"photographer", 1.0},
}

func (b *bleveIndex) Filter(query string, limit int) ([]Hit, error) {
	if len(strings.TrimSpace(query)) < MinQueryLength {
		return []Hit{}, nil
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		for _, fb := range fieldBoosts {
			qm := bleve.NewMatchQuery(tok)
			qm.SetField(fb.field)
			qm.SetBoost(fb.boost)
			qs = append(qs, qm)

			qp := bleve.NewPrefixQuery(tok)
			qp.SetField(fb.field)
			qp.SetBoost(fb.boost * 0.9)
			qs = append(qs, qp)
		}
	}
	if len(qs) == 0 {
		return []Hit{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("filtering results: %w", err)
	}

	out := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		out = append(out, Hit{Index: i, Score: h.Score})
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveIndex) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (b *bleveIndex) Close() error {
	return b.idx.Close()
}

func docID(i int) string { return strconv.Itoa(i) }
