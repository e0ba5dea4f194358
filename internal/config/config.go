package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror sensible research-crawling behavior: polite request
// rates, moderate concurrency, and a cache lifetime tuned to how quickly
// search results go stale.
const (
	// DefaultWorkers is the number of concurrent crawl workers.
	// Five workers keep a typical crawl I/O-bound without hammering any
	// single origin. Override with --workers for large seed sets.
	DefaultWorkers = 5

	// DefaultMaxDepth limits link-following to one hop from the seeds.
	// Depth 0 fetches only the seeds themselves; UnboundedDepth (-1)
	// removes the limit entirely and relies on visited-set termination.
	DefaultMaxDepth = 1

	// DefaultTopicThreshold is the minimum similarity score for page
	// content to be persisted when a topic is set. 0.5 keeps loosely
	// related material while dropping clearly off-topic pages.
	DefaultTopicThreshold = 0.5

	// DefaultLinkThreshold is the minimum similarity score for a link's
	// anchor text when link filtering is active. Link filtering only
	// engages above the StrictLinkThreshold cutoff, so this default keeps
	// crawls in fast mode.
	DefaultLinkThreshold = 0.6

	// StrictLinkThreshold is the cutoff above which the crawler scores
	// each link's anchor text before following it. Below this cutoff all
	// links are followed without embedding calls, which keeps the common
	// case cheap: per-link scoring multiplies embedding traffic by the
	// average link count per page.
	StrictLinkThreshold = 0.8

	// DefaultTimeout is the per-request HTTP timeout. 30 seconds is
	// generous for slow origins while still bounding worker stalls.
	DefaultTimeout = 30 * time.Second

	// DefaultCacheTTL is how long cached search results and page payloads
	// stay fresh. 90 minutes covers a working session; research queries
	// repeated within that window return identical results anyway.
	DefaultCacheTTL = 90 * time.Minute

	// DefaultCacheMaxEntries caps the cache row count. When exceeded, the
	// oldest 20% of entries are evicted in one pass.
	DefaultCacheMaxEntries = 1000

	// DefaultMaxResults is the number of search results returned per query.
	DefaultMaxResults = 10

	// DefaultSearchResults is the number of results used to seed a crawl
	// in discovery mode. Smaller than DefaultMaxResults because every
	// seed fans out into a crawl subtree.
	DefaultSearchResults = 5

	// DefaultRequestsPerSecond is the global politeness rate for page
	// fetches. Two requests per second is conservative enough for small
	// origins; 0 disables rate limiting.
	DefaultRequestsPerSecond = 2

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is sufficient for HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies webscout in HTTP requests. A descriptive
	// User-Agent lets operators identify crawler traffic in their logs.
	DefaultUserAgent = "webscout/1.0"

	// DefaultOllamaHost is the local Ollama endpoint used for embeddings.
	DefaultOllamaHost = "http://localhost:11434"

	// DefaultEmbedModel is the embedding model requested from Ollama.
	// mxbai-embed-large balances quality and speed for short passages.
	DefaultEmbedModel = "mxbai-embed-large"

	// DefaultOutputDir is where markdown artifacts are written.
	DefaultOutputDir = "scraped_content"

	// AppName is the application name used for XDG directory paths.
	AppName = "webscout"
)

// Environment variable names for provider credentials.
// Credentials are read from the environment (optionally via a .env file)
// rather than flags so they never appear in shell history or process lists.
const (
	// EnvBraveAPIKey holds the Brave Search subscription token.
	EnvBraveAPIKey = "BRAVE_SEARCH_API_KEY"

	// EnvTavilyAPIKey holds the Tavily API key.
	EnvTavilyAPIKey = "TAVILY_API_KEY"
)

// Config holds all configuration options for webscout.
// This struct is populated from CLI flags and the environment and passed
// through the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, SearchConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Sources is the list of seed URLs or local file paths to crawl.
	Sources []string

	// SearchQuery, when set, seeds the crawl from search results instead
	// of explicit sources (discovery mode).
	SearchQuery string

	// SearchResults is the number of search results used as seeds in
	// discovery mode.
	SearchResults int

	// Workers is the number of concurrent crawl workers.
	Workers int

	// MaxDepth is the maximum link-following depth. 0 fetches only the
	// seeds; model.UnboundedDepth (-1) removes the limit.
	MaxDepth int

	// Topic, when set, gates page content on embedding similarity.
	// Pages scoring below TopicThreshold are not persisted, though their
	// links are still followed.
	Topic string

	// TopicThreshold is the minimum content similarity in [0,1].
	TopicThreshold float64

	// LinkThreshold is the minimum anchor-text similarity in [0,1].
	// Values at or below StrictLinkThreshold leave link filtering off.
	LinkThreshold float64

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// RequestsPerSecond is the politeness rate for page fetches.
	// 0 disables rate limiting.
	RequestsPerSecond float64

	// OutputDir is the directory artifacts are written to.
	OutputDir string

	// CacheDir is the directory holding the SQLite cache database.
	// Defaults to the XDG cache directory.
	CacheDir string

	// CacheTTL is how long cache entries stay fresh.
	CacheTTL time.Duration

	// CacheMaxEntries caps the cache row count.
	CacheMaxEntries int

	// MaxResults is the number of search results returned per query.
	MaxResults int

	// DomainPreset names a domain filter preset ("github", "docs", ...).
	// Empty means no domain filtering.
	DomainPreset string

	// Presets maps preset names to domain suffix lists. Populated from
	// the built-in table, optionally merged with a preset file.
	Presets map[string][]string

	// PresetFilePath is an explicit path to a preset file. If empty, the
	// tool searches for .webscout in the current directory, the home
	// directory, and the XDG config directory.
	PresetFilePath string

	// BraveAPIKey authenticates against the Brave Search API.
	// Empty disables the Brave provider.
	BraveAPIKey string

	// TavilyAPIKey authenticates against the Tavily API.
	// Empty disables the Tavily provider.
	TavilyAPIKey string

	// OllamaHost is the base URL of the Ollama embedding endpoint.
	OllamaHost string

	// EmbedModel is the embedding model requested from Ollama.
	EmbedModel string

	// JSONOutput switches search output from human-readable text to JSON.
	JSONOutput bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, thresholds).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		SearchResults:     DefaultSearchResults,
		Workers:           DefaultWorkers,
		MaxDepth:          DefaultMaxDepth,
		TopicThreshold:    DefaultTopicThreshold,
		LinkThreshold:     DefaultLinkThreshold,
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		RequestsPerSecond: DefaultRequestsPerSecond,
		OutputDir:         DefaultOutputDir,
		CacheDir:          XDGCacheDir(),
		CacheTTL:          DefaultCacheTTL,
		CacheMaxEntries:   DefaultCacheMaxEntries,
		MaxResults:        DefaultMaxResults,
		Presets:           BuiltinPresets(),
		OllamaHost:        DefaultOllamaHost,
		EmbedModel:        DefaultEmbedModel,
	}
}

// XDGConfigDir returns the XDG config directory for webscout.
// On Linux: ~/.config/webscout
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for webscout.
// On Linux: ~/.cache/webscout
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any network or cache work.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// Workers must be positive; zero workers would mean no crawling
	if c.Workers <= 0 {
		return ErrInvalidWorkerCount
	}

	// Depth must be non-negative or the unbounded sentinel
	if c.MaxDepth < -1 {
		return ErrInvalidDepth
	}

	// Thresholds are similarity scores and must stay in [0,1]
	if c.TopicThreshold < 0 || c.TopicThreshold > 1 {
		return ErrInvalidThreshold
	}
	if c.LinkThreshold < 0 || c.LinkThreshold > 1 {
		return ErrInvalidThreshold
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CacheTTL <= 0 {
		return ErrInvalidCacheTTL
	}
	if c.CacheMaxEntries <= 0 {
		return ErrInvalidCacheSize
	}

	if c.MaxResults <= 0 {
		return ErrInvalidMaxResults
	}
	if c.SearchResults <= 0 {
		return ErrInvalidMaxResults
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// Rate must be non-negative; 0 disables rate limiting
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	// A requested preset must exist in the merged preset table
	if c.DomainPreset != "" {
		if _, ok := c.Presets[c.DomainPreset]; !ok {
			return ErrUnknownPreset
		}
	}

	return nil
}
