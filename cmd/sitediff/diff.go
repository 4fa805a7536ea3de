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

	"github.com/nao1215/sitediff/internal/cache"
	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/fetch"
	"github.com/nao1215/sitediff/internal/log"
	"github.com/nao1215/sitediff/internal/model"
	"github.com/nao1215/sitediff/internal/report"
	"github.com/nao1215/sitediff/internal/runner"
)

// errFailingPaths marks a run that completed but found differences or
// errors. Execute maps it to a dedicated exit code.
var errFailingPaths = errors.New("comparison found failing paths")

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [paths...]",
		Short: "Fetch, sanitize, and compare paths across two deployments",
		Long: `Diff fetches each configured path from both the "before" and "after"
base URLs, applies the sanitization rules, and compares the results.

Paths come from positional arguments, the config file, or a paths file;
an explicit path list and a paths file are mutually exclusive.

Examples:
  # Compare two paths across deployments
  sitediff diff -b https://old.example.com -a https://new.example.com / /pricing

  # Compare every path listed in a file
  sitediff diff -b https://old.example.com -a https://new.example.com --paths-file paths.txt

  # Replay the "before" side from cache, fetch "after" live
  sitediff diff --cache-read before --paths-file paths.txt

  # Emit a Markdown report and write artifacts to a custom directory
  sitediff diff -m -o reports/migration-42 --paths-file paths.txt

Configuration file (.sitediff.yml) example:
  before:
    base_url: https://old.example.com
    cookie: "session_id=abc123"
  after:
    base_url: https://new.example.com
  paths:
    - /
    - /pricing
  rules:
    - kind: regexp
      name: build-hash
      pattern: 'app\.[0-9a-f]{8}\.js'
      replace: 'app.HASH.js'
    - kind: remove
      selector: 'script[src*="analytics"]'
    - kind: whitespace`,
		Args: cobra.ArbitraryArgs,
		RunE: runDiffCmd,
	}

	// Deployment flags
	cmd.Flags().StringP("before", "b", "", "Base URL of the pre-migration deployment")
	cmd.Flags().StringP("after", "a", "", "Base URL of the post-migration deployment")

	// Path source flags
	cmd.Flags().StringP("paths-file", "f", "",
		"Newline-delimited file of paths to compare (mutually exclusive with positional paths)")

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of paths compared concurrently")
	cmd.Flags().String("user-agent", "", "Override the User-Agent header")

	// Cache flags
	cmd.Flags().String("cache-dir", "", "Cache directory (default: XDG data directory)")
	cmd.Flags().String("cache-read", config.DefaultCacheRead,
		"Sides served from cache when present: none, all, before, after")
	cmd.Flags().String("cache-write", config.DefaultCacheWrite,
		"Sides persisted to cache after fetching: none, all, before, after")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitediff.yml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory for failure artifacts and failures.txt")
	cmd.Flags().String("before-report-url", "",
		"Base URL shown for the before side in reports (display only)")
	cmd.Flags().String("after-report-url", "",
		"Base URL shown for the after side in reports (display only)")

	return cmd
}

// runDiffCmd executes the diff command.
func runDiffCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildDiffConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
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

	jsonReport, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownReport, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonReport && markdownReport {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	return runDiff(ctx, cfg, jsonReport, markdownReport, logger)
}

// buildDiffConfig merges defaults, the config file, flags, and
// positional arguments into a Config, in that order.
func buildDiffConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default locations
	// are optional.
	configPath := config.FindConfigFile(configPathFlag)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if configPathFlag != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPathFlag)
	}

	if err := applyDiffFlags(cmd, cfg); err != nil {
		return nil, err
	}

	// Positional paths replace the config file's path list outright.
	if len(args) > 0 {
		cfg.Paths = args
	}

	return cfg, nil
}

// applyDiffFlags overwrites config values with flags the user actually
// set, so config file values survive when a flag is left at its default.
func applyDiffFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("before") {
		if cfg.BeforeBase, err = flags.GetString("before"); err != nil {
			return err
		}
	}
	if flags.Changed("after") {
		if cfg.AfterBase, err = flags.GetString("after"); err != nil {
			return err
		}
	}
	if flags.Changed("paths-file") {
		if cfg.PathsFile, err = flags.GetString("paths-file"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("cache-read") {
		if cfg.CacheRead, err = flags.GetString("cache-read"); err != nil {
			return err
		}
	}
	if flags.Changed("cache-write") {
		if cfg.CacheWrite, err = flags.GetString("cache-write"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("before-report-url") {
		if cfg.BeforeReportURL, err = flags.GetString("before-report-url"); err != nil {
			return err
		}
	}
	if flags.Changed("after-report-url") {
		if cfg.AfterReportURL, err = flags.GetString("after-report-url"); err != nil {
			return err
		}
	}

	return nil
}

// runDiff executes the comparison pipeline.
func runDiff(ctx context.Context, cfg *config.Config, jsonReport, markdownReport bool, logger *slog.Logger) error {
	paths := cfg.Paths
	if cfg.PathsFile != "" {
		var err error
		paths, err = config.LoadPathsFile(cfg.PathsFile)
		if err != nil {
			return fmt.Errorf("failed to load paths file %s: %w", cfg.PathsFile, err)
		}
	}

	rules, err := cfg.CompileRules()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	pageCache, store := openCache(cfg, logger)
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close cache", "error", err)
			}
		}()
	}

	events := fetch.NewPublisher(fetch.DefaultEventBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range events.Events() {
			if e.Outcome == fetch.OutcomeFailed {
				fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", e.Side, e.Path, e.Err)
				continue
			}
			fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", e.Side, e.Path, e.Outcome)
		}
	}()

	fetchOpts := []fetch.Option{
		fetch.WithCache(pageCache),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithEvents(events),
		fetch.WithLogger(logger),
	}
	if cfg.UserAgent != "" {
		fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.UserAgent))
	}
	for _, side := range model.Sides() {
		sc := cfg.SideConfigFor(side.String())
		if len(sc.Headers) > 0 {
			fetchOpts = append(fetchOpts, fetch.WithSideHeaders(side, sc.Headers))
		}
		if sc.Cookie != "" {
			fetchOpts = append(fetchOpts, fetch.WithSideCookie(side, sc.Cookie))
		}
	}
	fetcher := fetch.New(cfg.BeforeBase, cfg.AfterBase, fetchOpts...)

	fmt.Printf("Comparing %d paths...\n", len(model.NormalizePaths(paths)))
	startTime := time.Now()

	r := runner.New(fetcher, rules,
		runner.WithConcurrency(cfg.Concurrency),
		runner.WithLogger(logger),
	)
	rep := r.Run(ctx, paths)

	events.Close()
	<-done

	elapsed := time.Since(startTime)
	fmt.Printf("Comparison completed in %s\n\n", elapsed.Round(time.Millisecond))

	if err := outputReport(cfg, rep, jsonReport, markdownReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	dumpOpts := runner.DumpOptions{
		OutputDir:       cfg.OutputDir,
		FailuresFile:    cfg.FailuresFile,
		BeforeReportURL: cfg.BeforeReportURL,
		AfterReportURL:  cfg.AfterReportURL,
	}
	if dumpOpts.BeforeReportURL == "" {
		dumpOpts.BeforeReportURL = cfg.BeforeBase
	}
	if dumpOpts.AfterReportURL == "" {
		dumpOpts.AfterReportURL = cfg.AfterBase
	}
	if err := runner.Dump(rep, dumpOpts); err != nil {
		return fmt.Errorf("failed to write artifacts: %w", err)
	}

	if rep.Failed() {
		return fmt.Errorf("%w: %d different, %d errored of %d paths",
			errFailingPaths, rep.DifferentCount, rep.ErrorCount, rep.TotalPaths())
	}
	return nil
}

// openCache opens the page cache. Cache trouble never aborts a run; on
// failure the run degrades to live fetching with a warning. The caller
// must close the returned store when it is non-nil.
func openCache(cfg *config.Config, logger *slog.Logger) (*cache.Cache, *cache.Store) {
	read := cfg.ReadTags()
	write := cfg.WriteTags()
	if read == (cache.Tags{}) && write == (cache.Tags{}) {
		return nil, nil
	}

	store, err := cache.Open(cfg.ResolvedCacheDir(), cache.DefaultOptions())
	if err != nil {
		logger.Warn("cache unavailable, fetching everything live",
			"dir", cfg.ResolvedCacheDir(), "error", err)
		return nil, nil
	}
	return cache.New(store, read, write, logger), store
}

// outputReport writes the report to stdout in the requested format.
func outputReport(cfg *config.Config, rep *model.Report, jsonReport, markdownReport bool) error {
	if jsonReport {
		_, err := report.NewJSONWriter(os.Stdout).Write(rep)
		return err
	}
	if markdownReport {
		_, err := report.NewMarkdownWriter(os.Stdout).Write(rep)
		return err
	}
	_, err := report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)).Write(rep)
	return err
}
