package model

import (
	"net/url"
	"strings"
)

// Quality score values assigned to search results.
// Scores are small ordinals used only for ranking within a single response:
// a result earns one point for coming from an authoritative domain and one
// point for carrying complete metadata (both title and description).
const (
	// QualityLow marks a result with no authority or metadata signal.
	QualityLow = 0

	// QualityMedium marks a result with exactly one positive signal.
	QualityMedium = 1

	// QualityHigh marks a result with both positive signals.
	QualityHigh = 2
)

// SearchResult represents a single result returned by a search provider.
// Results are value objects: once returned from the aggregator they are
// never mutated.
type SearchResult struct {
	// URL is the absolute URL of the result.
	URL string `json:"url"`

	// Title is the result title as returned by the provider.
	Title string `json:"title"`

	// Description is the provider's snippet or summary for the result.
	Description string `json:"description"`

	// Domain is the lowercased hostname extracted from URL.
	// Populated by the aggregator so consumers don't re-parse the URL.
	Domain string `json:"domain"`

	// QualityScore is 0, 1, or 2. Higher is better. See the Quality constants.
	QualityScore int `json:"quality_score"`

	// Source names the provider that produced this result (e.g. "brave").
	Source string `json:"source"`
}

// NormalizedURL returns the result URL in a canonical form used for
// deduplication: fragment removed, scheme and host lowercased, empty
// path normalized to "/". Invalid URLs are returned unchanged so they
// still deduplicate against byte-identical copies.
func (r SearchResult) NormalizedURL() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
