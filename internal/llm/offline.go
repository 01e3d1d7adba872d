package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultOfflineDimension is the vector size of the offline embedder.
const DefaultOfflineDimension = 256

// OfflineEmbedder is a deterministic, network-free embedder: a hashed
// bag-of-words vector, L2-normalized. Texts sharing vocabulary land close
// together under Euclidean distance, which is enough for offline testing and
// keyless runs.
type OfflineEmbedder struct {
	dimension int
}

var _ Embedder = (*OfflineEmbedder)(nil)

// NewOfflineEmbedder creates an offline embedder. dimension 0 selects the
// default.
func NewOfflineEmbedder(dimension int) *OfflineEmbedder {
	if dimension <= 0 {
		dimension = DefaultOfflineDimension
	}
	return &OfflineEmbedder{dimension: dimension}
}

// Model returns the synthetic model name.
func (e *OfflineEmbedder) Model() string {
	return "offline-hash-bow"
}

// Dimension returns the vector size.
func (e *OfflineEmbedder) Dimension() int {
	return e.dimension
}

// Embed never fails and ignores the context; it exists to satisfy Embedder.
func (e *OfflineEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()
		bucket := int(sum % uint64(e.dimension))
		sign := float32(1)
		if sum&(1<<63) != 0 {
			sign = -1
		}
		vec[bucket] += sign
	}
	normalizeL2(vec)
	return vec, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalizeL2(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	n := math.Sqrt(sum)
	if n == 0 {
		return
	}
	inv := float32(1.0 / n)
	for i := range v {
		v[i] *= inv
	}
}
