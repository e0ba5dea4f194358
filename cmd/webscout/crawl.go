package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"webscout/internal/cache"
	"webscout/internal/config"
	"webscout/internal/crawler"
	"webscout/internal/fetch"
	"webscout/internal/log"
	"webscout/internal/model"
	"webscout/internal/semantic"
	"webscout/internal/storage"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [source...]",
		Short: "Crawl web pages or local files and save them as markdown",
		Long: `Crawl fetches the given sources (URLs or local file paths), follows
links up to the configured depth, and writes each page as a markdown
document with source metadata.

With --search, seeds come from web search results instead of arguments
(discovery mode). With --topic, page content is scored against the topic
using Ollama embeddings and off-topic pages are skipped; their links are
still followed so on-topic material behind an off-topic hub is found.

Examples:
  # Crawl a documentation site one level deep
  webscout crawl https://go.dev/doc/

  # Discover seeds through search and filter by topic
  webscout crawl --search "go memory model" --topic "memory ordering"

  # Unbounded crawl with strict link filtering
  webscout crawl -d -1 --topic "raft consensus" --link-threshold 0.9 https://raft.github.io/

  # Mix URLs and local notes
  webscout crawl https://example.com/paper notes/summary.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link-following depth (-1 for unbounded)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent crawl workers")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().Float64P("rate", "r", config.DefaultRequestsPerSecond,
		"Maximum page fetches per second (0 disables rate limiting)")

	// Topic filtering flags
	cmd.Flags().String("topic", "",
		"Topic to filter content by using embedding similarity")
	cmd.Flags().Float64("topic-threshold", config.DefaultTopicThreshold,
		"Minimum content similarity in [0,1] for a page to be saved")
	cmd.Flags().Float64("link-threshold", config.DefaultLinkThreshold,
		fmt.Sprintf("Minimum anchor-text similarity in [0,1]; values above %.1f enable strict link filtering", config.StrictLinkThreshold))
	cmd.Flags().String("ollama-host", config.DefaultOllamaHost,
		"Base URL of the Ollama embedding endpoint")
	cmd.Flags().String("embed-model", config.DefaultEmbedModel,
		"Embedding model requested from Ollama")

	// Discovery mode flags
	cmd.Flags().StringP("search", "s", "",
		"Seed the crawl from web search results for this query")
	cmd.Flags().Int("search-results", config.DefaultSearchResults,
		"Number of search results used as seeds in discovery mode")
	cmd.Flags().StringP("preset", "p", "",
		"Domain preset restricting discovery results (github, docs, tutorials, ...)")
	cmd.Flags().String("preset-file", "",
		"Preset file path (default: .webscout in current or home directory)")

	// Output and cache flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory to write markdown artifacts to")
	cmd.Flags().String("cache-dir", "",
		"Cache directory (default: XDG cache directory)")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached pages and search results stay fresh")
	cmd.Flags().Int("cache-max-entries", config.DefaultCacheMaxEntries,
		"Maximum number of cache entries before the oldest are evicted")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if len(cfg.Sources) == 0 && cfg.SearchQuery == "" {
		return errors.New("no sources provided (pass seed URLs or files as arguments, or use --search)")
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildCrawlConfig creates a Config from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Sources = args
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.BraveAPIKey = os.Getenv(config.EnvBraveAPIKey)
	cfg.TavilyAPIKey = os.Getenv(config.EnvTavilyAPIKey)

	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.RequestsPerSecond, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.Topic, err = cmd.Flags().GetString("topic")
	if err != nil {
		return nil, err
	}

	cfg.TopicThreshold, err = cmd.Flags().GetFloat64("topic-threshold")
	if err != nil {
		return nil, err
	}

	cfg.LinkThreshold, err = cmd.Flags().GetFloat64("link-threshold")
	if err != nil {
		return nil, err
	}

	cfg.OllamaHost, err = cmd.Flags().GetString("ollama-host")
	if err != nil {
		return nil, err
	}

	cfg.EmbedModel, err = cmd.Flags().GetString("embed-model")
	if err != nil {
		return nil, err
	}

	cfg.SearchQuery, err = cmd.Flags().GetString("search")
	if err != nil {
		return nil, err
	}

	cfg.SearchResults, err = cmd.Flags().GetInt("search-results")
	if err != nil {
		return nil, err
	}

	cfg.DomainPreset, err = cmd.Flags().GetString("preset")
	if err != nil {
		return nil, err
	}

	cfg.PresetFilePath, err = cmd.Flags().GetString("preset-file")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}

	cfg.CacheTTL, err = cmd.Flags().GetDuration("cache-ttl")
	if err != nil {
		return nil, err
	}

	cfg.CacheMaxEntries, err = cmd.Flags().GetInt("cache-max-entries")
	if err != nil {
		return nil, err
	}

	if err := applyPresetFile(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runCrawl wires the components together and executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store := openCache(ctx, cfg, logger)
	if store != nil {
		defer store.Close()
	}

	writer, err := storage.NewMarkdownWriter(cfg.OutputDir)
	if err != nil {
		return err
	}

	fetcher := fetch.NewClient(cfg.Timeout,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithRequestsPerSecond(cfg.RequestsPerSecond),
	)

	opts := []crawler.Option{
		crawler.WithWorkers(cfg.Workers),
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithLinkThreshold(cfg.LinkThreshold),
		crawler.WithSchedulerLogger(logger),
	}

	if store != nil {
		opts = append(opts, crawler.WithPageCache(store))
	}

	if cfg.Topic != "" {
		embedder := semantic.NewOllamaEmbedder(cfg.OllamaHost, cfg.EmbedModel)
		opts = append(opts,
			crawler.WithAnalyzer(semantic.NewAnalyzer(embedder, logger)),
			crawler.WithTopic(cfg.Topic, cfg.TopicThreshold),
		)
	}

	if engine := buildEngine(cfg, store); engine != nil {
		opts = append(opts, crawler.WithSearchEngine(engine))
	}

	scheduler := crawler.NewScheduler(fetcher, writer, opts...)

	startTime := time.Now()
	var summary model.CrawlSummary

	if cfg.SearchQuery != "" {
		fmt.Printf("Discovering seeds for %q...\n", cfg.SearchQuery)
		summary, err = scheduler.Discover(ctx, cfg.SearchQuery, cfg.SearchResults, cfg.DomainPreset)
	} else {
		fmt.Printf("Crawling %d source(s)...\n", len(cfg.Sources))
		summary, err = scheduler.Crawl(ctx, cfg.Sources)
	}

	elapsed := time.Since(startTime).Round(time.Millisecond)
	fmt.Printf("\nCrawl finished in %s\n", elapsed)
	fmt.Printf("  saved:     %d\n", summary.ArtifactsEmitted)
	fmt.Printf("  processed: %d\n", summary.SourcesProcessed)
	fmt.Printf("  skipped:   %d\n", summary.SourcesSkipped)
	fmt.Printf("  failed:    %d\n", summary.SourcesFailed)
	if summary.ArtifactsEmitted > 0 {
		fmt.Printf("\nArtifacts written to %s\n", cfg.OutputDir)
	}

	return err
}

// openCache opens the cache store and runs housekeeping. The cache is
// an optimization: failure to open degrades to uncached operation
// rather than aborting the crawl.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) *cache.Store {
	store, err := cache.Open(cfg.CacheDir, cache.Options{
		TTL:       cfg.CacheTTL,
		EnableWAL: true,
	})
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "dir", cfg.CacheDir, "error", err)
		return nil
	}

	if removed, err := store.SweepExpired(ctx); err != nil {
		logger.Warn("cache sweep failed", "error", err)
	} else if removed > 0 {
		logger.Debug("swept expired cache entries", "removed", removed)
	}

	if evicted, err := store.EnforceSizeCap(ctx, cfg.CacheMaxEntries); err != nil {
		logger.Warn("cache size enforcement failed", "error", err)
	} else if evicted > 0 {
		logger.Debug("evicted cache entries over size cap", "evicted", evicted)
	}

	return store
}
