// Package diff compares two sanitized documents for a single path.
//
// The line-level diff primitive is delegated to sergi/go-diff
// (diff-match-patch) in line mode; this package only shapes its output
// into a DiffResult, a unified text rendering, and a standalone HTML
// artifact for failing paths.
package diff
