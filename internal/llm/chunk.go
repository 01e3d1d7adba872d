package llm

import (
	"context"
	"fmt"
)

// Chunking bounds for long-document embedding. Provider context windows top
// out well below full SOW documents, so long texts are embedded piecewise.
const (
	chunkSize    = 2000
	chunkOverlap = 200
)

// EmbedLong embeds text that may exceed a single embedding call, splitting it
// into overlapping chunks and max-pooling the chunk vectors element-wise.
// Max-pooling keeps a strong topical signal from any one section visible in
// the pooled vector, which suits retrieval over multi-section documents.
func EmbedLong(ctx context.Context, e Embedder, text string) ([]float32, error) {
	if len(text) <= chunkSize {
		return e.Embed(ctx, text)
	}

	var pooled []float32
	for _, chunk := range splitChunks(text, chunkSize, chunkOverlap) {
		vec, err := e.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk: %w", err)
		}
		if pooled == nil {
			pooled = vec
			continue
		}
		for i := range pooled {
			if i < len(vec) && vec[i] > pooled[i] {
				pooled[i] = vec[i]
			}
		}
	}
	return pooled, nil
}

// splitChunks splits on rune boundaries so a multi-byte character never
// straddles two chunks as invalid UTF-8.
func splitChunks(text string, size, overlap int) []string {
	if size <= overlap {
		return []string{text}
	}
	runes := []rune(text)
	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
