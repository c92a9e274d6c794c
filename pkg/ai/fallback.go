package ai

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService routes between providers:
// summaries try Ollama first (local, free) then Gemini; embeddings try Gemini
// first (better vectors) then Ollama.
type FallbackService struct {
	gemini *GeminiService
	ollama *OllamaService
}

func NewFallbackService(gemini *GeminiService, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	indicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range indicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	indicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}
	for _, indicator := range indicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

func (f *FallbackService) Summarize(ctx context.Context, subject, from, body string) (string, error) {
	if f.ollama != nil {
		result, err := f.ollama.Summarize(ctx, subject, from, body)
		if err == nil {
			return result, nil
		}
		log.Printf("[AI] Ollama summarization failed: %v, falling back to Gemini", err)
	}

	if f.gemini != nil {
		result, err := f.gemini.Summarize(ctx, subject, from, body)
		if err == nil {
			return result, nil
		}
		if isQuotaError(err) && f.ollama != nil {
			log.Printf("[AI] Gemini quota exhausted: %v, retrying Ollama", err)
			return f.ollama.Summarize(ctx, subject, from, body)
		}
		return "", fmt.Errorf("gemini summarization failed: %w", err)
	}

	return "", fmt.Errorf("no AI provider available for summarization")
}

func (f *FallbackService) Embed(ctx context.Context, subject, body string) ([]float64, error) {
	if f.gemini != nil {
		result, err := f.gemini.Embed(ctx, subject, body)
		if err == nil {
			return result, nil
		}
		log.Printf("[AI] Gemini embedding failed: %v, falling back to Ollama", err)
	}

	if f.ollama != nil {
		result, err := f.ollama.Embed(ctx, subject, body)
		if err == nil {
			return result, nil
		}
		if isConnectionError(err) && f.gemini != nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return f.gemini.Embed(ctx, subject, body)
		}
		return nil, fmt.Errorf("ollama embedding failed: %w", err)
	}

	return nil, fmt.Errorf("no AI provider available for embeddings")
}
