package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"webscout/internal/cache"
	"webscout/internal/model"
)

// Engine aggregates search across an ordered list of providers.
//
// Design decision: Fallback is expressed as provider order, not as a
// primary/secondary pair baked into the type. The engine walks the list
// until it has enough results, so a secondary-only configuration is just
// a one-element list and adding a third provider changes nothing.
type Engine struct {
	// providers are tried in order; earlier providers are preferred.
	providers []Provider

	// store caches responses keyed by the query tuple. Nil disables caching.
	store *cache.Store

	// scorer assigns quality scores to results.
	scorer QualityScorer

	// presets maps preset names to domain suffix lists.
	presets map[string][]string

	// logger records provider failures and cache activity.
	logger *slog.Logger

	// group collapses concurrent identical queries into one provider call.
	group singleflight.Group
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCache sets the result cache store.
func WithCache(store *cache.Store) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithScorer replaces the default quality scorer.
func WithScorer(scorer QualityScorer) EngineOption {
	return func(e *Engine) {
		if scorer != nil {
			e.scorer = scorer
		}
	}
}

// WithPresets sets the domain preset table.
func WithPresets(presets map[string][]string) EngineOption {
	return func(e *Engine) {
		e.presets = presets
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a search engine over the given providers.
// Provider order determines fallback preference.
func NewEngine(providers []Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		providers: providers,
		scorer:    HeuristicScorer{},
		presets:   map[string][]string{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// HasProviders reports whether at least one provider is configured.
func (e *Engine) HasProviders() bool {
	return len(e.providers) > 0
}

// SearchOnly runs a single search query and returns processed results:
// deduplicated, junk-filtered, preset-filtered, quality-ranked, and
// truncated to maxResults.
//
// Validation failures and the no-provider condition are the only errors
// returned before provider work; at request time the engine falls back
// across providers and errors only when nothing produced results.
func (e *Engine) SearchOnly(ctx context.Context, query string, maxResults int, preset string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		return nil, ErrInvalidMaxResults
	}
	if preset != "" {
		if _, ok := e.presets[preset]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
		}
	}
	if !e.HasProviders() {
		return nil, ErrNoProvider
	}

	// Usage counters track logical searches, so cache hits and shared
	// singleflight calls count too. A counter failure never fails the search.
	if e.store != nil {
		if err := e.store.RecordSearch(ctx); err != nil {
			e.logger.Debug("failed to record search stats", "error", err)
		}
	}

	key := cache.Key("search", query, strconv.Itoa(maxResults), preset)

	// singleflight collapses concurrent identical queries: one goroutine
	// does the work, the rest share its outcome (including errors), and
	// the in-flight entry is removed when the call completes.
	v, err, shared := e.group.Do(key, func() (any, error) {
		return e.searchLocked(ctx, key, query, maxResults, preset)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		e.logger.Debug("search shared with concurrent identical query", "query", query)
	}

	return v.([]model.SearchResult), nil
}

// searchLocked performs the cache check, provider calls, and result
// processing for a single query. Runs inside the singleflight group.
func (e *Engine) searchLocked(ctx context.Context, key, query string, maxResults int, preset string) ([]model.SearchResult, error) {
	if e.store != nil {
		var cached []model.SearchResult
		hit, err := e.store.GetJSON(ctx, key, &cached)
		if err != nil {
			e.logger.Warn("cache read failed, querying providers", "error", err)
		} else if hit {
			e.logger.Debug("search cache hit", "query", query)
			return cached, nil
		}
	}

	raw, err := e.queryProviders(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	results := e.processResults(raw, maxResults, preset)

	if e.store != nil {
		if err := e.store.PutJSON(ctx, key, results); err != nil {
			e.logger.Warn("cache write failed", "error", err)
		}
	}

	return results, nil
}

// queryProviders walks the provider list in order, supplementing results
// until maxResults are collected. Duplicate URLs across providers are
// dropped. A provider error triggers fallback to the next provider; the
// call fails only when every provider was exhausted without a single
// result and at least one of them errored.
func (e *Engine) queryProviders(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	collected := make([]model.SearchResult, 0, maxResults)
	seen := make(map[string]bool, maxResults)
	var failures []error

	for _, p := range e.providers {
		if len(collected) >= maxResults {
			break
		}

		results, err := p.Search(ctx, query, maxResults-len(collected))
		if err != nil {
			e.logger.Warn("provider failed, falling back",
				"provider", p.Name(),
				"query", query,
				"error", err,
			)
			failures = append(failures, err)
			continue
		}

		for _, r := range results {
			norm := r.NormalizedURL()
			if seen[norm] {
				continue
			}
			seen[norm] = true
			collected = append(collected, r)
		}
	}

	if len(collected) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(failures...))
	}

	return collected, nil
}

// processResults fills domains, drops junk and non-preset results,
// assigns quality scores, ranks, and truncates.
func (e *Engine) processResults(raw []model.SearchResult, maxResults int, preset string) []model.SearchResult {
	var presetDomains []string
	if preset != "" {
		presetDomains = e.presets[preset]
	}

	results := make([]model.SearchResult, 0, len(raw))
	for _, r := range raw {
		r.Domain = hostOf(r.URL)
		if r.Domain == "" {
			continue
		}
		if isSkippedDomain(r.Domain) {
			continue
		}
		if presetDomains != nil && !domainMatchesAny(r.Domain, presetDomains) {
			continue
		}
		r.QualityScore = e.scorer.Score(r)
		results = append(results, r)
	}

	// Stable sort keeps provider order among equal scores, so the
	// primary provider's results surface first within each tier
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].QualityScore > results[j].QualityScore
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// hostOf extracts the lowercased hostname from a URL, empty on failure.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
