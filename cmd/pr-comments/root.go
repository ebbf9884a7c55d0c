package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reillywatson/prcomments/internal/cache"
	"github.com/reillywatson/prcomments/internal/config"
	"github.com/reillywatson/prcomments/internal/github"
	"github.com/reillywatson/prcomments/internal/report"
)

var (
	configPath string
	repoFlag   string
	outputDir  string
	outputPath string
	workers    int
	useCache   bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "pr-comments",
	Short: "Export pull request discussion from a GitHub repository",
	Long: `pr-comments walks every pull request in a repository (open, closed and
merged) and collects its review comments, reviews with a body, and issue
comments.

If collection fails, an empty but well-formed result is still written so
automation that expects the output file keeps working.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file path (TOML)")
	flags.StringVar(&repoFlag, "repo", "", "Repository in owner/repo format (default $GITHUB_REPOSITORY)")
	flags.StringVar(&outputDir, "output-dir", ".", "Directory for the output file")
	flags.IntVar(&workers, "workers", 1, "Pull requests to fetch concurrently")
	flags.BoolVar(&useCache, "cache", false, "Cache API responses on disk between runs")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(countCmd, listCmd, exportCmd)
}

// loadConfig resolves configuration, letting only explicitly set flags
// override the file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	o := config.Overrides{
		ConfigPath: configPath,
		Repository: repoFlag,
	}
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		o.OutputDir = &outputDir
	}
	if flags.Changed("workers") {
		o.Workers = &workers
	}
	if flags.Changed("cache") {
		o.Cache = &useCache
	}
	if flags.Changed("log-level") {
		o.LogLevel = &logLevel
	}
	return config.Load(o)
}

func setupLogging(cfg *config.Config) {
	level, _ := config.ParseLevel(cfg.LogLevel)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("run_id", uuid.NewString()))
}

// resolvePath returns --output when given, else defaultName inside the output dir.
func resolvePath(cfg *config.Config, defaultName string) string {
	if outputPath != "" {
		return outputPath
	}
	return filepath.Join(cfg.OutputDir, defaultName)
}

// newSource builds the API client, wrapped with the disk cache when enabled.
// A cache that cannot be opened is logged and the run continues uncached.
func newSource(cfg *config.Config) (github.CommentSource, func()) {
	client := github.NewGitHubClient(cfg.Token, github.WithRequestsPerSecond(cfg.RequestsPerSecond))
	if !cfg.CacheEnabled {
		return client, func() {}
	}

	var (
		cacheImpl cache.Cache
		err       error
	)
	if cfg.CacheDir != "" {
		cacheImpl, err = cache.NewFileCacheWithDir(cfg.CacheDir)
	} else {
		cacheImpl, err = cache.NewDefaultCache()
	}
	if err != nil {
		slog.Warn("cache unavailable, continuing without it", "error", err)
		return client, func() {}
	}

	cached := github.NewCachedGitHubClient(client, cacheImpl)
	return cached, func() {
		if err := cached.Close(); err != nil {
			slog.Warn("error closing cache", "error", err)
		}
	}
}

// runMode loads configuration, then collects and exports with the mode built
// by newMode. Configuration errors return before any network access.
func runMode(cmd *cobra.Command, banner string, newMode func(cfg *config.Config) (report.Mode, error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	mode, err := newMode(cfg)
	if err != nil {
		return err
	}

	source, closeSource := newSource(cfg)
	defer closeSource()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Repository: %s\n", cfg.Repository())
	fmt.Fprintln(out, banner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := github.NewCollector(source,
		github.WithWorkers(cfg.Workers),
		github.WithProgress(out),
	)
	if err := report.Run(ctx, collector, cfg.Owner, cfg.Repo, mode); err != nil {
		return err
	}

	fmt.Fprintln(out, "Done.")
	return nil
}
