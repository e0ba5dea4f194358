package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"webscout/internal/model"
)

// defaultBraveBaseURL is the Brave Search API endpoint.
const defaultBraveBaseURL = "https://api.search.brave.com/res/v1"

// BraveProvider queries the Brave Search web API.
// Brave is the primary provider: an independent index with a generous
// free tier and snippets suited to research queries.
type BraveProvider struct {
	// apiKey is the subscription token sent with each request.
	apiKey string

	// baseURL is the API root, overridable for tests.
	baseURL string

	// httpClient is the HTTP client used for API requests.
	httpClient *http.Client
}

// BraveOption configures a BraveProvider.
type BraveOption func(*BraveProvider)

// WithBraveBaseURL overrides the API endpoint. Used in tests.
func WithBraveBaseURL(u string) BraveOption {
	return func(p *BraveProvider) {
		p.baseURL = u
	}
}

// NewBraveProvider creates a Brave search provider with the given API key.
func NewBraveProvider(apiKey string, opts ...BraveOption) *BraveProvider {
	p := &BraveProvider{
		apiKey:  apiKey,
		baseURL: defaultBraveBaseURL,
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
func (p *BraveProvider) Name() string {
	return "brave"
}

// braveResponse is the subset of Brave's response shape we consume.
type braveResponse struct {
	Web struct {
		Results []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search queries the Brave web search endpoint.
func (p *BraveProvider) Search(ctx context.Context, query string, max int) ([]model.SearchResult, error) {
	endpoint := p.baseURL + "/web/search?" + url.Values{
		"q":     {query},
		"count": {strconv.Itoa(max)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: ProviderErrNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: ProviderErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.Name(), Kind: kindForStatus(resp.StatusCode), StatusCode: resp.StatusCode}
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Kind: ProviderErrResponse, Err: err}
	}

	results := make([]model.SearchResult, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, model.SearchResult{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
			Source:      p.Name(),
		})
	}

	return results, nil
}
