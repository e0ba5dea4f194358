package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSources is returned when a crawl has neither seed sources nor
	// a search query to derive seeds from.
	ErrNoSources = errors.New("no sources specified: provide URLs or file paths, or use --search")

	// ErrInvalidWorkerCount is returned when the worker count is not positive.
	// Zero workers would mean no crawling at all.
	ErrInvalidWorkerCount = errors.New("invalid worker count: must be positive")

	// ErrInvalidDepth is returned when the crawl depth is below -1.
	// Use -1 for unbounded depth, 0 to fetch only the seeds.
	ErrInvalidDepth = errors.New("invalid depth: must be -1 (unbounded) or non-negative")

	// ErrInvalidThreshold is returned when a similarity threshold falls
	// outside [0,1]. Thresholds compare against cosine similarity scores.
	ErrInvalidThreshold = errors.New("invalid threshold: must be between 0 and 1")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL is not positive.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be positive")

	// ErrInvalidCacheSize is returned when the cache entry cap is not positive.
	ErrInvalidCacheSize = errors.New("invalid cache size: must be positive")

	// ErrInvalidMaxResults is returned when a result count is not positive.
	ErrInvalidMaxResults = errors.New("invalid max results: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidRate is returned when the request rate is negative.
	// Use 0 to disable rate limiting.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrUnknownPreset is returned when the requested domain preset does
	// not exist in the built-in table or the user's preset file.
	ErrUnknownPreset = errors.New("unknown domain preset")
)
