package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaService implements Generator using a local Ollama instance.
type OllamaService struct {
	baseURL string
	model   string
}

func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &OllamaService{baseURL: baseURL, model: model}
}

// Summarize produces a short actionable summary of an email.
func (o *OllamaService) Summarize(ctx context.Context, subject, from, body string) (string, error) {
	prompt := fmt.Sprintf(`You are an email assistant. Summarize the email below so the reader can decide what to do with it at a glance.

GUIDELINES:
- Line 1: the main point in one short sentence.
- Line 2 (only when relevant): an action item or deadline.
- For promotional or automated mail just write "Promotion from [sender]".
- At most 2 lines. Do not trail off with "...".

FROM: %s
SUBJECT: %s

EMAIL:
%s

SUMMARY:`, from, subject, body)

	payload := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.3,
			"num_predict": 100,
		},
	}

	respBody, err := o.post(ctx, "/api/generate", payload)
	if err != nil {
		return "", err
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Response, nil
}

// Embed produces an embedding vector for the email text.
func (o *OllamaService) Embed(ctx context.Context, subject, body string) ([]float64, error) {
	payload := map[string]interface{}{
		"model":  o.model,
		"prompt": subject + "\n\n" + body,
	}

	respBody, err := o.post(ctx, "/api/embeddings", payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Embedding, nil
}

func (o *OllamaService) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
