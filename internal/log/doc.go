// Package log provides structured logging setup for sitediff.
// All output flows through a RedactHandler that masks cookie and
// authorization values from per-side fetch configuration.
package log
