package search

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"webscout/internal/model"
)

// defaultTavilyBaseURL is the Tavily API endpoint.
const defaultTavilyBaseURL = "https://api.tavily.com"

// TavilyProvider queries the Tavily search API.
// Tavily serves as the fallback provider: its index and snippets differ
// enough from Brave's to supplement thin result sets.
type TavilyProvider struct {
	// apiKey authenticates the request. Tavily expects it in the JSON body.
	apiKey string

	// baseURL is the API root, overridable for tests.
	baseURL string

	// httpClient is the HTTP client used for API requests.
	httpClient *http.Client
}

// TavilyOption configures a TavilyProvider.
type TavilyOption func(*TavilyProvider)

// WithTavilyBaseURL overrides the API endpoint. Used in tests.
func WithTavilyBaseURL(u string) TavilyOption {
	return func(p *TavilyProvider) {
		p.baseURL = u
	}
}

// NewTavilyProvider creates a Tavily search provider with the given API key.
func NewTavilyProvider(apiKey string, opts ...TavilyOption) *TavilyProvider {
	p := &TavilyProvider{
		apiKey:  apiKey,
		baseURL: defaultTavilyBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name identifies this provider.
func (p *TavilyProvider) Name() string {
	return "tavily"
}

// tavilyRequest is the Tavily search request body.
type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// tavilyResponse is the subset of Tavily's response shape we consume.
type tavilyResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search queries the Tavily search endpoint.
func (p *TavilyProvider) Search(ctx context.Context, query string, max int) ([]model.SearchResult, error) {
	payload, err := json.Marshal(tavilyRequest{
		APIKey:     p.apiKey,
		Query:      query,
		MaxResults: max,
	})
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: ProviderErrResponse, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: ProviderErrNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: ProviderErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.Name(), Kind: kindForStatus(resp.StatusCode), StatusCode: resp.StatusCode}
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: ProviderErrResponse, Err: err}
	}

	results := make([]model.SearchResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, model.SearchResult{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Content,
			Source:      p.Name(),
		})
	}

	return results, nil
}
