package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"webscout/internal/cache"
	"webscout/internal/config"
	"webscout/internal/search"
)

// NewRootCmd creates the root command for webscout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webscout",
		Short: "Research-focused web content discovery tool",
		Long: `webscout crawls the web for research material and saves it as markdown.

It can start from explicit seed URLs or local files, or discover seeds
through web search (Brave Search with Tavily fallback). With a topic set,
page content is scored against the topic using local Ollama embeddings
and off-topic pages are filtered out.

Provider credentials are read from the environment (or a .env file):
  BRAVE_SEARCH_API_KEY  enables the Brave Search provider
  TAVILY_API_KEY        enables the Tavily provider`,
		Version:       resolveBuildDetails().version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	// Provider keys commonly live in a local .env during research
	// sessions. A missing file is not an error.
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// applyPresetFile merges a preset file into the config's preset table.
// An explicitly requested file must exist; the default lookup is
// best-effort.
func applyPresetFile(cfg *config.Config) error {
	explicit := cfg.PresetFilePath != ""
	path := config.FindPresetFile(cfg.PresetFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("%w: %s", config.ErrPresetFileNotFound, cfg.PresetFilePath)
		}
		return nil
	}

	file, err := config.LoadPresetFile(path)
	if err != nil {
		return fmt.Errorf("failed to load preset file %s: %w", path, err)
	}
	cfg.Presets = config.MergePresets(cfg.Presets, file.Presets)
	return nil
}

// buildEngine assembles the search engine from configured providers.
// Providers are ordered by preference: Brave first, Tavily as fallback.
// Returns nil when no provider key is configured.
func buildEngine(cfg *config.Config, store *cache.Store, opts ...search.EngineOption) *search.Engine {
	var providers []search.Provider
	if cfg.BraveAPIKey != "" {
		providers = append(providers, search.NewBraveProvider(cfg.BraveAPIKey))
	}
	if cfg.TavilyAPIKey != "" {
		providers = append(providers, search.NewTavilyProvider(cfg.TavilyAPIKey))
	}
	if len(providers) == 0 {
		return nil
	}

	engineOpts := []search.EngineOption{search.WithPresets(cfg.Presets)}
	if store != nil {
		engineOpts = append(engineOpts, search.WithCache(store))
	}
	engineOpts = append(engineOpts, opts...)

	return search.NewEngine(providers, engineOpts...)
}
