// Package index provides a flat in-memory similarity index over SOW
// embedding vectors. Records are appended once at build time and searched
// by brute-force Euclidean distance; there is no internal locking, so
// callers must finish Add calls before concurrent Search use.
package index

import (
	"math"
	"sort"

	"github.com/mfeldt/staffplan/internal/models"
)

type record struct {
	id     string
	text   string
	vector []float32
}

// Index is an append-only in-memory vector index.
type Index struct {
	records []record
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Add appends a record. Duplicate ids are kept as-is.
func (ix *Index) Add(id, text string, vector []float32) {
	ix.records = append(ix.records, record{id: id, text: text, vector: vector})
}

// Len returns the number of stored records.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Search returns the topK records closest to query by Euclidean distance,
// ascending. An empty index or topK <= 0 yields an empty result. Vectors of
// mismatched dimensionality are the caller's responsibility; the embedding
// provider guarantees a fixed dimension.
func (ix *Index) Search(query []float32, topK int) []models.Neighbor {
	if len(ix.records) == 0 || topK <= 0 {
		return nil
	}
	neighbors := make([]models.Neighbor, 0, len(ix.records))
	for _, r := range ix.records {
		neighbors = append(neighbors, models.Neighbor{
			ID:       r.id,
			Text:     r.text,
			Distance: euclidean(query, r.vector),
		})
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})
	if topK < len(neighbors) {
		neighbors = neighbors[:topK]
	}
	return neighbors
}

func euclidean(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
