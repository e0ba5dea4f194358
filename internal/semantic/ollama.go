package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Embedder turns text into a dense vector.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float64, error)
}

// OllamaEmbedder requests embeddings from a local Ollama instance.
//
// Design decision: We target Ollama's /api/embeddings endpoint rather than
// a hosted embedding API because relevance scoring runs on every crawled
// page; a local model keeps that traffic free and private.
type OllamaEmbedder struct {
	// host is the Ollama base URL, e.g. "http://localhost:11434".
	host string

	// model is the embedding model name.
	model string

	// httpClient is the HTTP client used for embedding requests.
	httpClient *http.Client
}

// NewOllamaEmbedder creates an embedder for the given Ollama host and model.
func NewOllamaEmbedder(host, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		host:  strings.TrimSuffix(host, "/"),
		model: model,
		httpClient: &http.Client{
			// Embedding a page excerpt is fast on warm models; a stuck
			// backend should not stall crawl workers for long
			Timeout: 30 * time.Second,
		},
	}
}

// embedRequest is the Ollama embeddings request body.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse is the Ollama embeddings response body.
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding vector for text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.host+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512)) //nolint:errcheck // Best effort error detail
		return nil, fmt.Errorf("embedding request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}

	if len(er.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response contained no vector for model %s", e.model)
	}

	return er.Embedding, nil
}
