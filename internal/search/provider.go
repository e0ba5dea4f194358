package search

import (
	"context"
	"errors"
	"fmt"

	"webscout/internal/model"
)

// Provider is a single search backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name identifies the provider in results and logs (e.g. "brave").
	Name() string

	// Search returns up to max results for query.
	// An empty result slice with a nil error is a valid outcome.
	Search(ctx context.Context, query string, max int) ([]model.SearchResult, error)
}

// Engine validation and capability errors.
var (
	// ErrEmptyQuery is returned when the query is empty or whitespace.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrInvalidMaxResults is returned when the result count is not positive.
	ErrInvalidMaxResults = errors.New("invalid max results: must be positive")

	// ErrNoProvider is returned when no search provider is configured.
	// This is a capability error, distinct from all providers failing
	// at request time.
	ErrNoProvider = errors.New("no search provider configured: set a provider API key")

	// ErrUnknownPreset is returned when the requested domain preset is
	// not in the engine's preset table.
	ErrUnknownPreset = errors.New("unknown domain preset")

	// ErrAllProvidersFailed is returned when every configured provider
	// errored or returned nothing for a query.
	ErrAllProvidersFailed = errors.New("all search providers failed")
)

// ProviderErrorKind classifies provider request failures.
type ProviderErrorKind int

// Provider failure kinds.
const (
	// ProviderErrNetwork covers transport-level failures.
	ProviderErrNetwork ProviderErrorKind = iota

	// ProviderErrAuth covers 401/403 responses (bad or missing key).
	ProviderErrAuth

	// ProviderErrQuota covers 429 responses (rate or quota exceeded).
	ProviderErrQuota

	// ProviderErrResponse covers unexpected statuses and undecodable bodies.
	ProviderErrResponse
)

// String returns a human-readable name for the kind.
func (k ProviderErrorKind) String() string {
	switch k {
	case ProviderErrNetwork:
		return "network"
	case ProviderErrAuth:
		return "auth"
	case ProviderErrQuota:
		return "quota"
	case ProviderErrResponse:
		return "response"
	default:
		return "unknown"
	}
}

// ProviderError is a typed provider failure.
type ProviderError struct {
	// Provider names the failing provider.
	Provider string

	// Kind classifies the failure.
	Kind ProviderErrorKind

	// StatusCode is the HTTP status for non-network failures, zero otherwise.
	StatusCode int

	// Err is the underlying error, may be nil for pure status failures.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s search failed: %s (status %d)", e.Provider, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s search failed: %s: %v", e.Provider, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// kindForStatus maps an HTTP status to a provider failure kind.
func kindForStatus(status int) ProviderErrorKind {
	switch status {
	case 401, 403:
		return ProviderErrAuth
	case 429:
		return ProviderErrQuota
	default:
		return ProviderErrResponse
	}
}
