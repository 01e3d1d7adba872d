// Package config holds runtime configuration: environment settings for the
// embedding/analysis providers and yaml files for roles and planning weights.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Provider identifies an embedding/LLM backend.
type Provider string

const (
	// ProviderOffline uses deterministic local embeddings and the heuristic
	// SOW analyzer. No network, no keys; the default.
	ProviderOffline Provider = "offline"

	// ProviderOllama uses a local Ollama server via langchaingo.
	ProviderOllama Provider = "ollama"

	// ProviderOpenAI uses the OpenAI API via langchaingo.
	ProviderOpenAI Provider = "openai"

	// ProviderBedrock uses Amazon Bedrock Titan text embeddings.
	ProviderBedrock Provider = "bedrock"
)

// Config holds all environment-derived configuration values.
type Config struct {
	// Embedding
	EmbedProvider  Provider
	EmbedModel     string
	EmbedDimension int
	OllamaHost     string
	OpenAIAPIKey   string
	AWSRegion      string

	// SOW analysis
	LLMProvider Provider
	LLMModel    string

	// Config files
	RolesFile   string
	WeightsFile string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables with offline defaults,
// so the tool works without any credentials configured.
func Load() Config {
	return Config{
		EmbedProvider:  Provider(getEnv("STAFFPLAN_EMBED_PROVIDER", string(ProviderOffline))),
		EmbedModel:     getEnv("STAFFPLAN_EMBED_MODEL", ""),
		EmbedDimension: getEnvInt("STAFFPLAN_EMBED_DIMENSION", 0),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),

		LLMProvider: Provider(getEnv("STAFFPLAN_LLM_PROVIDER", string(ProviderOffline))),
		LLMModel:    getEnv("STAFFPLAN_LLM_MODEL", ""),

		RolesFile:   getEnv("STAFFPLAN_ROLES_FILE", "config/roles.yaml"),
		WeightsFile: getEnv("STAFFPLAN_WEIGHTS_FILE", "config/weights.yaml"),

		LogFile:  getEnv("STAFFPLAN_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("STAFFPLAN_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
