package ai

import (
	"fmt"
)

// Config holds AI provider configuration.
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	GeminiAPIKey string
	GeminiModel  string

	OllamaBaseURL string
	OllamaModel   string
}

// NewGenerator creates a Generator based on the config. Switch AI provider by
// changing Config.Provider.
func NewGenerator(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// Auto: use both with fallback routing when Gemini is configured,
		// Ollama alone otherwise.
		ollama := NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
		if cfg.GeminiAPIKey != "" {
			return NewFallbackService(NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel), ollama), nil
		}
		return ollama, nil
	}
}
