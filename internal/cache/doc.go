// Package cache provides the persistent page store shared by runs.
//
// The Store keeps one entry per (side, path) key in a SQLite database
// (via modernc.org/sqlite): a single file, no external service, CGO-free
// cross-compilation, and WAL mode for concurrent readers. The Cache type
// wraps a Store with the per-run read/write tag policy: each side's
// participation in reads and writes is decided once, before any fetch.
package cache
