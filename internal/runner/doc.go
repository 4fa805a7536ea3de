// Package runner orchestrates the fetch/sanitize/diff pipeline across
// all configured paths and writes the run's failure artifacts.
//
// Per-path work is independent and runs on a bounded errgroup pool.
// The two sides of one path fetch concurrently; sanitize and diff wait
// on both. Results are collected into an index-addressed slice so the
// report preserves input path order regardless of completion order, and
// a run always completes: per-path failures and cancellation both turn
// into error entries rather than aborting the batch.
package runner
