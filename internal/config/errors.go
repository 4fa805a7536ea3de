package config

import "errors"

// Configuration validation errors.
// These are package-level sentinels so callers can use errors.Is while
// still getting human-readable messages. Every one of them is fatal:
// configuration errors abort before any fetch is issued.
var (
	// ErrNoBeforeBase is returned when the "before" base URL is missing.
	ErrNoBeforeBase = errors.New("no before base URL: set --before or the config file's before field")

	// ErrNoAfterBase is returned when the "after" base URL is missing.
	ErrNoAfterBase = errors.New("no after base URL: set --after or the config file's after field")

	// ErrInvalidBaseURL is returned when a base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be absolute http(s)")

	// ErrNoPaths is returned when no paths are configured, by list or
	// by file, after all sources are resolved.
	ErrNoPaths = errors.New("no paths configured: provide paths, a paths file, or run init --crawl")

	// ErrPathSourceConflict is returned when both an explicit path list
	// and a paths file are supplied. The two sources are never merged;
	// the conflict is rejected outright.
	ErrPathSourceConflict = errors.New("conflicting path sources: configure either an explicit path list or a paths file, not both")

	// ErrInvalidConcurrency is returned when the worker limit is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the fetch timeout is not
	// positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrReadConfigFile is returned when the config file cannot be read.
	ErrReadConfigFile = errors.New("failed to read config file")

	// ErrParseConfigFile is returned when the config file is not valid YAML.
	ErrParseConfigFile = errors.New("failed to parse config file")

	// ErrReadPathsFile is returned when the paths file cannot be read.
	ErrReadPathsFile = errors.New("failed to read paths file")
)
