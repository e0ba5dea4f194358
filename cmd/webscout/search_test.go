package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"webscout/internal/cache"
	"webscout/internal/config"
	"webscout/internal/model"
	"webscout/internal/search"
)

// TestNewSearchCmd tests the search command creation.
func TestNewSearchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSearchCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "search <query> [query...]" {
			t.Errorf("expected use 'search <query> [query...]', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{
			"max-results", "preset", "preset-file", "json", "output",
			"cache-dir", "cache-ttl", "stats",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})

	t.Run("max-results flag defaults", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-results")
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "10" {
			t.Errorf("expected default '10', got %q", flag.DefValue)
		}
	})

	t.Run("requires at least one query", func(t *testing.T) {
		t.Parallel()

		cmd := NewSearchCmd()
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error without query arguments")
		}
	})

	t.Run("stats rejects query arguments", func(t *testing.T) {
		t.Parallel()

		cmd := NewSearchCmd()
		cmd.SetArgs([]string{"--stats", "some query"})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error combining --stats with queries")
		}
	})
}

// TestRunSearchCmdStats tests the usage counter display.
func TestRunSearchCmdStats(t *testing.T) {
	t.Setenv(config.EnvBraveAPIKey, "")
	t.Setenv(config.EnvTavilyAPIKey, "")

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"search", "--stats", "--cache-dir", t.TempDir()})

	// Counters work without provider keys; nothing is searched
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Total searches: 0") {
		t.Errorf("expected zero counters, got: %s", buf.String())
	}
}

// TestWriteSearchStats tests rendering of usage counters.
func TestWriteSearchStats(t *testing.T) {
	t.Parallel()

	stats := cache.SearchStats{
		TotalSearches: 3,
		FirstSearch:   time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		LastSearch:    time.Date(2026, 8, 31, 17, 30, 0, 0, time.UTC),
		ByDay: map[string]int{
			"2026-08-30": 1,
			"2026-08-31": 2,
		},
	}

	t.Run("text output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeSearchStats(&buf, stats, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Total searches: 3",
			"2026-08-30T09:00:00Z",
			"2026-08-31  2",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeSearchStats(&buf, stats, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"total_searches": 3`) {
			t.Errorf("expected JSON field, got: %s", buf.String())
		}
	})
}

// TestRunSearchCmdNoProviders tests the error when no provider key is set.
func TestRunSearchCmdNoProviders(t *testing.T) {
	t.Setenv(config.EnvBraveAPIKey, "")
	t.Setenv(config.EnvTavilyAPIKey, "")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"search", "--cache-dir", t.TempDir(), "some query"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error without provider keys")
	}
	if !strings.Contains(err.Error(), "no search provider configured") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestWriteResults tests text rendering of search results.
func TestWriteResults(t *testing.T) {
	t.Parallel()

	results := []model.SearchResult{
		{
			URL:          "https://go.dev/blog/pprof",
			Title:        "Profiling Go Programs",
			Description:  "How to use pprof",
			QualityScore: model.QualityHigh,
			Source:       "brave",
		},
	}

	t.Run("text output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeResults(&buf, "go profiling", results, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Results for \"go profiling\"",
			"Profiling Go Programs",
			"https://go.dev/blog/pprof",
			"quality: 2/2",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeResults(&buf, "go profiling", results, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"url": "https://go.dev/blog/pprof"`) {
			t.Errorf("expected JSON field, got: %s", buf.String())
		}
	})

	t.Run("empty results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := writeResults(&buf, "nothing", nil, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No results") {
			t.Errorf("expected empty-result notice, got: %s", buf.String())
		}
	})
}

// TestWriteBatchResult tests text rendering of batch outcomes.
func TestWriteBatchResult(t *testing.T) {
	t.Parallel()

	result := search.BatchResult{
		Successful: 1,
		Failed:     1,
		Outcomes: []search.QueryOutcome{
			{
				Query: "good",
				Results: []model.SearchResult{
					{URL: "https://example.com", Title: "Example", Source: "brave"},
				},
			},
			{Query: "bad", Error: "all search providers failed"},
		},
	}

	var buf bytes.Buffer
	if err := writeBatchResult(&buf, result, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Results for \"good\"",
		"Query \"bad\" failed: all search providers failed",
		"1 of 2 queries succeeded",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
