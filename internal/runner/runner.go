package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sitediff/internal/diff"
	"github.com/nao1215/sitediff/internal/fetch"
	"github.com/nao1215/sitediff/internal/model"
	"github.com/nao1215/sitediff/internal/sanitize"
)

// DefaultConcurrency is the worker-pool size used when none is
// configured.
const DefaultConcurrency = 4

// Runner orchestrates the fetch/sanitize/diff pipeline across all
// configured paths and aggregates the per-path outcomes into a Report.
type Runner struct {
	fetcher     *fetch.Fetcher
	rules       *sanitize.RuleSet
	concurrency int
	logger      *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds the number of paths processed at once.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner over the given fetcher and compiled rule set.
// A nil rule set means raw documents are compared as fetched.
func New(fetcher *fetch.Fetcher, rules *sanitize.RuleSet, opts ...Option) *Runner {
	r := &Runner{
		fetcher:     fetcher,
		rules:       rules,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Run processes every path and returns the aggregate report.
//
// Paths are normalized and deduplicated, then processed by a bounded
// worker pool. Within one path the two sides fetch concurrently;
// sanitize and diff wait for both. Results land in an index-addressed
// slice so the report always follows input order, never completion
// order.
//
// Run always completes: per-path failures become error entries, and
// cancellation stops new work while paths that never resolved are
// recorded as errors. Only nothing-to-do is reported as a Go error by
// the caller's validation, never from here.
func (r *Runner) Run(ctx context.Context, paths []string) *model.Report {
	paths = model.NormalizePaths(paths)

	report := model.NewReport(
		r.fetcher.BaseURL(model.SideBefore),
		r.fetcher.BaseURL(model.SideAfter),
	)
	report.Results = make([]model.DiffResult, len(paths))

	r.logger.Info("starting comparison run",
		"paths", len(paths),
		"concurrency", r.concurrency,
		"before", report.BeforeBase,
		"after", report.AfterBase,
	)
	start := time.Now()

	g := &errgroup.Group{}
	g.SetLimit(r.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			// Stop issuing new work once the run is cancelled; paths
			// that never ran are reported as errors, not silently
			// dropped.
			select {
			case <-ctx.Done():
				report.Results[i] = diff.Errored(path, fmt.Sprintf("run cancelled: %v", ctx.Err()))
				return nil
			default:
			}

			report.Results[i] = r.comparePath(ctx, path)
			return nil
		})
	}

	// Workers never return errors; everything is captured per path.
	_ = g.Wait()

	report.Summarize()
	r.logger.Info("comparison run complete",
		"identical", report.IdenticalCount,
		"different", report.DifferentCount,
		"errors", report.ErrorCount,
		"elapsed", time.Since(start),
	)

	return report
}

// comparePath runs the full pipeline for one path: both sides fetch
// concurrently, and when both succeed the sanitized documents are
// diffed. A failure on either side short-circuits to an error result
// without sanitizing or diffing.
func (r *Runner) comparePath(ctx context.Context, path string) model.DiffResult {
	var before, after model.FetchResult

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		before = r.fetcher.Fetch(ctx, model.SideBefore, path)
	}()
	go func() {
		defer wg.Done()
		after = r.fetcher.Fetch(ctx, model.SideAfter, path)
	}()
	wg.Wait()

	if msg := fetchFailure(before, after); msg != "" {
		return diff.Errored(path, msg)
	}

	sanitizedBefore := r.rules.Apply(before.Content)
	sanitizedAfter := r.rules.Apply(after.Content)

	return diff.Compare(path, sanitizedBefore, sanitizedAfter)
}

// fetchFailure formats the error message for a path where at least one
// side failed. Both sides are reported when both failed.
func fetchFailure(before, after model.FetchResult) string {
	switch {
	case !before.OK() && !after.OK():
		return fmt.Sprintf("before: %v; after: %v", before.Err, after.Err)
	case !before.OK():
		return fmt.Sprintf("before: %v", before.Err)
	case !after.OK():
		return fmt.Sprintf("after: %v", after.Err)
	default:
		return ""
	}
}
