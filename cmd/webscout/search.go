package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"webscout/internal/cache"
	"webscout/internal/config"
	"webscout/internal/log"
	"webscout/internal/model"
	"webscout/internal/search"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query> [query...]",
		Short: "Search the web without crawling",
		Long: `Search queries the configured providers (Brave Search, with Tavily as
fallback) and prints deduplicated, quality-ranked results. Multiple
queries run concurrently as a batch.

Results are cached, so repeating a query within the cache TTL does not
spend provider quota.

Examples:
  # Single query
  webscout search "sqlite write-ahead log"

  # Restrict results to a domain preset
  webscout search --preset docs "context cancellation"

  # Batch queries with JSON output
  webscout search --json "go profiling" "pprof flame graph"

  # Show accumulated search usage counters
  webscout search --stats`,
		Args: func(cmd *cobra.Command, args []string) error {
			stats, err := cmd.Flags().GetBool("stats")
			if err != nil {
				return err
			}
			if stats {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: runSearchCmd,
	}

	cmd.Flags().IntP("max-results", "n", config.DefaultMaxResults,
		"Maximum number of results per query")
	cmd.Flags().StringP("preset", "p", "",
		"Domain preset restricting results (github, docs, tutorials, ...)")
	cmd.Flags().String("preset-file", "",
		"Preset file path (default: .webscout in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output results as JSON")
	cmd.Flags().StringP("output", "o", "",
		"Write results to specified file path (creates directories if needed)")
	cmd.Flags().String("cache-dir", "",
		"Cache directory (default: XDG cache directory)")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached search results stay fresh")
	cmd.Flags().Bool("stats", false,
		"Show search usage counters instead of searching")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildSearchConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return runSearch(ctx, cfg, args, cmd, logger)
}

// buildSearchConfig creates a Config from the search command flags.
func buildSearchConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.BraveAPIKey = os.Getenv(config.EnvBraveAPIKey)
	cfg.TavilyAPIKey = os.Getenv(config.EnvTavilyAPIKey)

	var err error

	cfg.MaxResults, err = cmd.Flags().GetInt("max-results")
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

	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
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

	if err := applyPresetFile(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runSearch executes the queries and writes the results.
func runSearch(ctx context.Context, cfg *config.Config, queries []string, cmd *cobra.Command, logger *slog.Logger) error {
	store := openCache(ctx, cfg, logger)
	if store != nil {
		defer store.Close()
	}

	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return err
	}
	if showStats {
		return runSearchStats(ctx, store, cmd, cfg.JSONOutput)
	}

	engine := buildEngine(cfg, store, search.WithLogger(logger))
	if engine == nil {
		return fmt.Errorf("no search provider configured (set %s or %s)",
			config.EnvBraveAPIKey, config.EnvTavilyAPIKey)
	}

	output, closer, err := searchOutput(cmd)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	if len(queries) == 1 {
		results, err := engine.SearchOnly(ctx, queries[0], cfg.MaxResults, cfg.DomainPreset)
		if err != nil {
			return err
		}
		return writeResults(output, queries[0], results, cfg.JSONOutput)
	}

	batch := make([]search.BatchQuery, 0, len(queries))
	for _, q := range queries {
		batch = append(batch, search.BatchQuery{
			Query:      q,
			MaxResults: cfg.MaxResults,
			Preset:     cfg.DomainPreset,
		})
	}

	result := engine.BatchSearch(ctx, batch)
	if err := writeBatchResult(output, result, cfg.JSONOutput); err != nil {
		return err
	}

	if result.Successful == 0 && result.Failed > 0 {
		return errors.New("all queries failed")
	}
	return nil
}

// runSearchStats prints the accumulated search usage counters.
// Counters live in the cache database, so a usable cache directory is
// required rather than optional here.
func runSearchStats(ctx context.Context, store *cache.Store, cmd *cobra.Command, asJSON bool) error {
	if store == nil {
		return errors.New("search stats require a usable cache directory")
	}

	stats, err := store.SearchStats(ctx)
	if err != nil {
		return err
	}

	output, closer, err := searchOutput(cmd)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	return writeSearchStats(output, stats, asJSON)
}

// writeSearchStats renders the usage counters.
func writeSearchStats(w io.Writer, stats cache.SearchStats, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}

	fmt.Fprintf(w, "Total searches: %d\n", stats.TotalSearches)
	if stats.TotalSearches == 0 {
		return nil
	}
	fmt.Fprintf(w, "First search:   %s\n", stats.FirstSearch.Format(time.RFC3339))
	fmt.Fprintf(w, "Last search:    %s\n", stats.LastSearch.Format(time.RFC3339))

	days := make([]string, 0, len(stats.ByDay))
	for day := range stats.ByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	fmt.Fprintln(w, "\nSearches by day:")
	for _, day := range days {
		fmt.Fprintf(w, "  %s  %d\n", day, stats.ByDay[day])
	}
	return nil
}

// searchOutput resolves the output destination from the --output flag.
// The returned closer is nil when writing to stdout.
func searchOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return cmd.OutOrStdout(), nil, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// writeResults renders a single query's results.
func writeResults(w io.Writer, query string, results []model.SearchResult, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(w, "No results for %q\n", query)
		return nil
	}

	fmt.Fprintf(w, "Results for %q:\n\n", query)
	for i, r := range results {
		printResult(w, i+1, r)
	}
	return nil
}

// writeBatchResult renders a batch outcome.
func writeBatchResult(w io.Writer, result search.BatchResult, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	for _, outcome := range result.Outcomes {
		if outcome.Error != "" {
			fmt.Fprintf(w, "Query %q failed: %s\n\n", outcome.Query, outcome.Error)
			continue
		}
		if err := writeResults(w, outcome.Query, outcome.Results, false); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d of %d queries succeeded\n", result.Successful, result.Successful+result.Failed)
	return nil
}

// printResult renders one search result as indented text.
func printResult(w io.Writer, rank int, r model.SearchResult) {
	fmt.Fprintf(w, "%2d. %s\n", rank, r.Title)
	fmt.Fprintf(w, "    %s\n", r.URL)
	if r.Description != "" {
		fmt.Fprintf(w, "    %s\n", r.Description)
	}
	fmt.Fprintf(w, "    quality: %d/2  source: %s\n\n", r.QualityScore, r.Source)
}
