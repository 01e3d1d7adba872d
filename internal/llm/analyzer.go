package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mfeldt/staffplan/internal/config"
	"github.com/mfeldt/staffplan/internal/models"
)

// Default chat models per provider.
const (
	DefaultOllamaLLMModel = "llama3.1"
	DefaultOpenAILLMModel = "gpt-4o-mini"
)

const maxSOWChars = 12000

const analyzePrompt = `You are a staffing planner. Read the SOW text and return JSON with: ` +
	`complexity_level (low|medium|high), duration_months (number), workstream_count (number), ` +
	`estimated_total_hours (number - estimate total staffing hours needed), key_deliverables (list of strings). ` +
	`Provide realistic estimates based on the scope and duration described. ` +
	`Ensure estimated_total_hours and duration_months are numeric values. Respond with JSON only.`

// Analyzer extracts a structured summary from free-text SOW content.
type Analyzer interface {
	AnalyzeSOW(ctx context.Context, text string) (models.SOWSummary, error)
}

// NewAnalyzer creates an Analyzer for the configured provider. The LLM-backed
// analyzers degrade to the heuristic one on call or parse failures, so
// AnalyzeSOW never fails the pipeline.
func NewAnalyzer(cfg config.Config, logger *slog.Logger) (Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.LLMProvider {
	case config.ProviderOffline, "":
		return &HeuristicAnalyzer{}, nil

	case config.ProviderOllama:
		model := cfg.LLMModel
		if model == "" {
			model = DefaultOllamaLLMModel
		}
		llm, err := ollama.New(
			ollama.WithModel(model),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
		return &modelAnalyzer{llm: llm, modelName: model, logger: logger}, nil

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model := cfg.LLMModel
		if model == "" {
			model = DefaultOpenAILLMModel
		}
		llm, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return &modelAnalyzer{llm: llm, modelName: model, logger: logger}, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}

// modelAnalyzer asks an LLM for a JSON summary of the SOW.
type modelAnalyzer struct {
	llm       llms.Model
	modelName string
	logger    *slog.Logger
	fallback  HeuristicAnalyzer
}

var _ Analyzer = (*modelAnalyzer)(nil)

// AnalyzeSOW returns the model's structured summary, or the heuristic
// analyzer's result when the call or the JSON parse fails.
func (a *modelAnalyzer) AnalyzeSOW(ctx context.Context, text string) (models.SOWSummary, error) {
	truncated := text
	if len(truncated) > maxSOWChars {
		truncated = truncated[:maxSOWChars]
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, analyzePrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, truncated),
	}
	response, err := a.llm.GenerateContent(ctx, messages, llms.WithJSONMode())
	if err != nil {
		a.logger.Warn("SOW analysis failed, using heuristic summary",
			"model", a.modelName, "error", err)
		return a.fallback.AnalyzeSOW(ctx, text)
	}
	if len(response.Choices) == 0 {
		a.logger.Warn("SOW analysis returned no choices, using heuristic summary",
			"model", a.modelName)
		return a.fallback.AnalyzeSOW(ctx, text)
	}

	summary, err := parseSummary(response.Choices[0].Content)
	if err != nil {
		a.logger.Warn("SOW analysis response unparsable, using heuristic summary",
			"model", a.modelName, "error", err)
		return a.fallback.AnalyzeSOW(ctx, text)
	}
	return summary, nil
}

// parseSummary decodes the model response, tolerating markdown code fences
// and string-typed numbers, and repairs implausible numeric fields.
func parseSummary(raw string) (models.SOWSummary, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var summary models.SOWSummary
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &summary); err != nil {
		return models.SOWSummary{}, fmt.Errorf("decode summary: %w", err)
	}
	if summary.EstimatedTotalHours <= 0 {
		summary.EstimatedTotalHours = 800
	}
	if summary.DurationMonths <= 0 {
		summary.DurationMonths = 4
	}
	return summary, nil
}
