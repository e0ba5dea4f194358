package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"webscout/internal/model"
)

func TestBraveProviderSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/web/search" {
			t.Errorf("path = %q, want /web/search", r.URL.Path)
		}
		if got := r.Header.Get("X-Subscription-Token"); got != "test-key" {
			t.Errorf("X-Subscription-Token = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("q"); got != "golang testing" {
			t.Errorf("q = %q, want %q", got, "golang testing")
		}
		if got := r.URL.Query().Get("count"); got != "3" {
			t.Errorf("count = %q, want 3", got)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"web": map[string]any{
				"results": []map[string]string{
					{"url": "https://example.com/1", "title": "One", "description": "first"},
					{"url": "", "title": "Dropped", "description": "no url"},
					{"url": "https://example.com/2", "title": "Two", "description": "second"},
				},
			},
		})
	}))
	defer srv.Close()

	p := NewBraveProvider("test-key", WithBraveBaseURL(srv.URL))

	results, err := p.Search(context.Background(), "golang testing", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (empty URL dropped)", len(results))
	}
	if results[0].URL != "https://example.com/1" || results[0].Title != "One" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[0].Source != "brave" {
		t.Errorf("Source = %q, want brave", results[0].Source)
	}
}

func TestBraveProviderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		wantKind ProviderErrorKind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantKind: ProviderErrAuth},
		{name: "forbidden", status: http.StatusForbidden, wantKind: ProviderErrAuth},
		{name: "rate limited", status: http.StatusTooManyRequests, wantKind: ProviderErrQuota},
		{name: "server error", status: http.StatusInternalServerError, wantKind: ProviderErrResponse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := NewBraveProvider("key", WithBraveBaseURL(srv.URL))

			_, err := p.Search(context.Background(), "q", 5)
			var pe *ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *ProviderError", err)
			}
			if pe.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", pe.Kind, tt.wantKind)
			}
			if pe.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", pe.StatusCode, tt.status)
			}
		})
	}
}

func TestTavilyProviderSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}

		var req struct {
			APIKey     string `json:"api_key"`
			Query      string `json:"query"`
			MaxResults int    `json:"max_results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.APIKey != "tavily-key" {
			t.Errorf("api_key = %q, want tavily-key", req.APIKey)
		}
		if req.MaxResults != 4 {
			t.Errorf("max_results = %d, want 4", req.MaxResults)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"url": "https://example.com/t1", "title": "T1", "content": "body one"},
			},
		})
	}))
	defer srv.Close()

	p := NewTavilyProvider("tavily-key", WithTavilyBaseURL(srv.URL))

	results, err := p.Search(context.Background(), "query", 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Description != "body one" {
		t.Errorf("Description = %q, want content field mapped", results[0].Description)
	}
	if results[0].Source != "tavily" {
		t.Errorf("Source = %q, want tavily", results[0].Source)
	}
}

func TestTavilyProviderDecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	p := NewTavilyProvider("key", WithTavilyBaseURL(srv.URL))

	_, err := p.Search(context.Background(), "q", 5)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ProviderError", err)
	}
	if pe.Kind != ProviderErrResponse {
		t.Errorf("Kind = %v, want ProviderErrResponse", pe.Kind)
	}
}

func TestHeuristicScorer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		domain string
		title  string
		desc   string
		want   int
	}{
		{name: "authority with metadata", domain: "github.com", title: "t", desc: "d", want: 2},
		{name: "authority subdomain", domain: "gist.github.com", title: "t", desc: "d", want: 2},
		{name: "edu suffix", domain: "cs.mit.edu", title: "t", desc: "d", want: 2},
		{name: "authority without metadata", domain: "stackoverflow.com", title: "t", desc: "", want: 1},
		{name: "metadata only", domain: "example.com", title: "t", desc: "d", want: 1},
		{name: "nothing", domain: "example.com", title: "", desc: "", want: 0},
	}

	scorer := HeuristicScorer{}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := model.SearchResult{Domain: tt.domain, Title: tt.title, Description: tt.desc}
			if got := scorer.Score(r); got != tt.want {
				t.Errorf("Score(%s) = %d, want %d", tt.domain, got, tt.want)
			}
		})
	}
}

func TestIsSkippedDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		domain string
		want   bool
	}{
		{"pinterest.com", true},
		{"www.pinterest.com", true},
		{"youtube.com", true},
		{"x.com", true},
		{"example.com", false},
		{"notpinterest.com", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		if got := isSkippedDomain(tt.domain); got != tt.want {
			t.Errorf("isSkippedDomain(%q) = %v, want %v", tt.domain, got, tt.want)
		}
	}
}
