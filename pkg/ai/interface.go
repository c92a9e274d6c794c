package ai

import (
	"mailboard/internal/kanban/domain"
)

// Generator bundles the two AI capabilities the board needs. Implement this
// to add new providers (Gemini, Ollama, OpenAI, ...).
type Generator interface {
	domain.SummaryGenerator
	domain.EmbeddingGenerator
}

// ProviderType selects the AI backend.
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
