// Package model defines the core data structures shared across the
// sitediff pipeline.
//
// The main types are:
//   - Side: the "before"/"after" dimension of a comparison
//   - FetchResult: the outcome of retrieving one path from one side
//   - DiffResult: the per-path comparison outcome
//   - Report: the aggregate of all per-path results for one run
//
// A path is represented as a plain string; NormalizePath defines its
// canonical form, which is the join key across the cache, fetch,
// sanitize, diff, and report stages.
package model
