package llm

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunksOverlap(t *testing.T) {
	text := strings.Repeat("a", 5000)
	chunks := splitChunks(text, 2000, 200)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if len(c) != 2000 {
			t.Errorf("chunk %d length = %d, want 2000", i, len(c))
		}
	}
	// Steps of 1800: final chunk covers 3600..5000.
	if len(chunks[2]) != 1400 {
		t.Errorf("final chunk length = %d, want 1400", len(chunks[2]))
	}
}

func TestSplitChunksRuneBoundaries(t *testing.T) {
	// Three-byte runes: byte-offset slicing would cut one in half.
	text := strings.Repeat("工作说明书", 900)
	chunks := splitChunks(text, 2000, 200)

	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if n := len([]rune(chunks[0])); n != 2000 {
		t.Errorf("first chunk has %d runes, want 2000", n)
	}
}

func TestSplitChunksShortText(t *testing.T) {
	chunks := splitChunks("short", 2000, 200)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Errorf("chunks = %v, want the text unchanged", chunks)
	}
}

func TestEmbedLongShortTextSingleCall(t *testing.T) {
	e := NewOfflineEmbedder(64)
	ctx := context.Background()

	direct, _ := e.Embed(ctx, "short text")
	long, err := EmbedLong(ctx, e, "short text")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for i := range direct {
		if direct[i] != long[i] {
			t.Fatalf("short text should embed identically, differs at %d", i)
		}
	}
}

func TestEmbedLongPoolsChunks(t *testing.T) {
	e := NewOfflineEmbedder(64)
	ctx := context.Background()

	text := strings.Repeat("sponsorship campaign strategy ", 200)
	vec, err := EmbedLong(ctx, e, text)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 64 {
		t.Fatalf("vector length = %d, want 64", len(vec))
	}

	// Pooling repeated topical content must keep the vector closer to that
	// topic than to unrelated text.
	topic, _ := e.Embed(ctx, "sponsorship campaign strategy")
	unrelated, _ := e.Embed(ctx, "database migration kubernetes cluster upgrade")
	if dist(vec, topic) >= dist(vec, unrelated) {
		t.Errorf("pooled vector is closer to unrelated text (%f) than its topic (%f)",
			dist(vec, unrelated), dist(vec, topic))
	}
}
