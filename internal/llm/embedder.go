// Package llm provides the external AI capability behind narrow interfaces:
// text embedding and SOW summarization. Every provider has a deterministic
// offline counterpart so the pipeline is testable without network access.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mfeldt/staffplan/internal/config"
)

// Default embedding models per provider.
const (
	DefaultOllamaEmbedModel  = "all-minilm:l6-v2"
	DefaultOllamaDimension   = 384
	DefaultOpenAIEmbedModel  = "text-embedding-3-small"
	DefaultOpenAIDimension   = 1536
	DefaultBedrockEmbedModel = "amazon.titan-embed-text-v2:0"
	DefaultBedrockDimension  = 1024
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension. All records in a
	// similarity index must come from the same model and dimension.
	Dimension() int
}

// NewEmbedder creates an Embedder for the configured provider.
func NewEmbedder(ctx context.Context, cfg config.Config) (Embedder, error) {
	switch cfg.EmbedProvider {
	case config.ProviderOffline, "":
		return NewOfflineEmbedder(cfg.EmbedDimension), nil

	case config.ProviderOllama:
		model := cfg.EmbedModel
		if model == "" {
			model = DefaultOllamaEmbedModel
		}
		dim := cfg.EmbedDimension
		if dim == 0 {
			dim = DefaultOllamaDimension
		}
		llm, err := ollama.New(
			ollama.WithModel(model),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		embedder, err := embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create ollama embedder: %w", err)
		}
		return &langchainEmbedder{model: embedder, modelName: model, dimension: dim}, nil

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model := cfg.EmbedModel
		if model == "" {
			model = DefaultOpenAIEmbedModel
		}
		dim := cfg.EmbedDimension
		if dim == 0 {
			dim = DefaultOpenAIDimension
		}
		llm, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithEmbeddingModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		embedder, err := embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create openai embedder: %w", err)
		}
		return &langchainEmbedder{model: embedder, modelName: model, dimension: dim}, nil

	case config.ProviderBedrock:
		return NewBedrockEmbedder(ctx, cfg.AWSRegion, cfg.EmbedModel, cfg.EmbedDimension)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbedProvider)
	}
}

// langchainEmbedder wraps a langchaingo embedder with dimension validation.
type langchainEmbedder struct {
	model     embeddings.Embedder
	modelName string
	dimension int
}

var _ Embedder = (*langchainEmbedder)(nil)

func (e *langchainEmbedder) Model() string {
	return e.modelName
}

func (e *langchainEmbedder) Dimension() int {
	return e.dimension
}

// Embed generates an embedding vector for text.
func (e *langchainEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vectors, err := e.model.EmbedDocuments(ctx, []string{text})
	duration := time.Since(start)

	if err != nil {
		slog.Warn("embedding failed", "model", e.modelName, "text_len", len(text),
			"duration_ms", duration.Milliseconds(), "error", err)
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	embedding := vectors[0]
	if len(embedding) != e.dimension {
		return nil, fmt.Errorf("dimension mismatch: got %d, want %d", len(embedding), e.dimension)
	}

	slog.Debug("embedding complete", "model", e.modelName, "text_len", len(text),
		"duration_ms", duration.Milliseconds())
	return embedding, nil
}
