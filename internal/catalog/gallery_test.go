package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGallery(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    []string
	}{
		{
			name:    "empty result set",
			records: nil,
			want:    []string{},
		},
		{
			name: "duplicates collapse to first occurrence",
			records: []Record{
				testRecord("1", "a", "https://img/a.jpg"),
				testRecord("2", "b", "https://img/b.jpg"),
				testRecord("3", "a again", "https://img/a.jpg"),
				testRecord("4", "c", "https://img/c.jpg"),
				testRecord("5", "b again", "https://img/b.jpg"),
			},
			want: []string{"https://img/a.jpg", "https://img/b.jpg", "https://img/c.jpg"},
		},
		{
			name: "order follows the result set, not sorted",
			records: []Record{
				testRecord("1", "z", "https://img/z.jpg"),
				testRecord("2", "a", "https://img/a.jpg"),
			},
			want: []string{"https://img/z.jpg", "https://img/a.jpg"},
		},
		{
			name: "records without links pass through once",
			records: []Record{
				testRecord("1", "a", "https://img/a.jpg"),
				testRecord("2", "no link", ""),
				testRecord("3", "no link either", ""),
			},
			want: []string{"https://img/a.jpg", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGallery(tt.records)
			assert.Equal(t, tt.want, g.URLs())
			assert.Equal(t, len(tt.want), g.Len())
		})
	}
}

func TestNewGallery_NoDuplicates(t *testing.T) {
	hrefs := []string{"a", "b", "a", "c", "c", "d", "b", "e", "a"}
	records := make([]Record, len(hrefs))
	for i, h := range hrefs {
		records[i] = testRecord(h, h, "https://img/"+h+".jpg")
	}

	g := NewGallery(records)

	seen := make(map[string]bool)
	for i := 0; i < g.Len(); i++ {
		u := g.At(i)
		assert.False(t, seen[u], "duplicate %s", u)
		seen[u] = true
	}
	assert.Equal(t, []string{
		"https://img/a.jpg",
		"https://img/b.jpg",
		"https://img/c.jpg",
		"https://img/d.jpg",
		"https://img/e.jpg",
	}, g.URLs())
}

func TestGallery_URLsIsCopy(t *testing.T) {
	g := NewGallery([]Record{testRecord("1", "a", "https://img/a.jpg")})

	urls := g.URLs()
	urls[0] = "changed"

	assert.Equal(t, "https://img/a.jpg", g.At(0))
}

func TestGallery_ZeroValue(t *testing.T) {
	var g Gallery
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.URLs())
}
