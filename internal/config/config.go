package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/sitediff/internal/cache"
	"github.com/nao1215/sitediff/internal/sanitize"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitediff"

	// DefaultTimeout bounds each HTTP request. Comparisons run against
	// live production and staging hosts; 30 seconds covers slow pages
	// without letting one hung request stall a worker for minutes.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is the per-run bound on concurrent path
	// workers. Each worker issues up to two requests at a time, so the
	// default keeps at most eight requests in flight against the
	// compared hosts.
	DefaultConcurrency = 4

	// DefaultCacheRead enables cache reads for the "before" side only:
	// "after" always reflects the live migration target while "before"
	// can be replayed from a prior capture.
	DefaultCacheRead = cache.TagsBefore

	// DefaultCacheWrite persists fetched content for both sides every
	// run, so any run's capture can seed a later replay.
	DefaultCacheWrite = cache.TagsAll

	// DefaultOutputDir receives failure artifacts when no directory is
	// configured.
	DefaultOutputDir = "sitediff-output"
)

// SideConfig holds per-side request configuration, for deployments
// behind authentication or a tunnel.
type SideConfig struct {
	// Cookie is sent as the Cookie header on every request to this side.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers for this side.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Config holds all options for one comparison run. It is populated from
// the config file and CLI flags, then passed by reference into the
// pipeline; there is no ambient or process-wide configuration state.
type Config struct {
	// BeforeBase and AfterBase are the base URLs of the two compared
	// deployments, without trailing slash.
	BeforeBase string
	AfterBase  string

	// Paths is the ordered list of site-relative paths to compare.
	// Mutually exclusive with PathsFile.
	Paths []string

	// PathsFile is a newline-delimited file of paths to compare.
	// Mutually exclusive with Paths.
	PathsFile string

	// Rules is the ordered sanitization rule declaration, compiled once
	// per run via CompileRules.
	Rules []sanitize.RuleConfig

	// CacheDir is the directory holding the persistent page cache.
	// Empty means the XDG data directory.
	CacheDir string

	// CacheRead and CacheWrite select which sides participate in cache
	// reads and writes ("none", "all", "before", "after").
	CacheRead  string
	CacheWrite string

	// Concurrency bounds the number of paths processed at once.
	Concurrency int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// UserAgent overrides the User-Agent header; empty uses the
	// fetcher default.
	UserAgent string

	// OutputDir receives failure artifacts and failures.txt.
	OutputDir string

	// FailuresFile overrides where the failing-paths list is written.
	FailuresFile string

	// BeforeReportURL and AfterReportURL are display-only base URLs
	// embedded in reports and artifacts. They never affect fetching.
	BeforeReportURL string
	AfterReportURL  string

	// Sides holds per-side request configuration keyed by side name.
	Sides map[string]SideConfig

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so relying on zero values would be wrong; this constructor
// also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		CacheRead:   DefaultCacheRead,
		CacheWrite:  DefaultCacheWrite,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		OutputDir:   DefaultOutputDir,
	}
}

// XDGDataDir returns the XDG data directory for sitediff, the default
// home of the persistent cache.
// On Linux: ~/.local/share/sitediff
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ResolvedCacheDir returns the configured cache directory, falling back
// to the XDG data directory.
func (c *Config) ResolvedCacheDir() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return XDGDataDir()
}

// Validate checks the configuration and returns the first problem
// found. It is called once after flag and file merging, before any
// fetch; all errors here are fatal.
func (c *Config) Validate() error {
	if c.BeforeBase == "" {
		return ErrNoBeforeBase
	}
	if c.AfterBase == "" {
		return ErrNoAfterBase
	}
	if err := validateBaseURL(c.BeforeBase); err != nil {
		return err
	}
	if err := validateBaseURL(c.AfterBase); err != nil {
		return err
	}

	// Both path sources at once is a hard conflict, never a merge.
	if len(c.Paths) > 0 && c.PathsFile != "" {
		return ErrPathSourceConflict
	}
	if len(c.Paths) == 0 && c.PathsFile == "" {
		return ErrNoPaths
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if _, err := cache.ParseTags(c.CacheRead); err != nil {
		return fmt.Errorf("invalid cache read tags: %w", err)
	}
	if _, err := cache.ParseTags(c.CacheWrite); err != nil {
		return fmt.Errorf("invalid cache write tags: %w", err)
	}

	// Compile the rules here as well so malformed rules fail at
	// configuration time, not mid-run.
	if _, err := sanitize.Compile(c.Rules); err != nil {
		return fmt.Errorf("invalid sanitization rules: %w", err)
	}

	return nil
}

// CompileRules compiles the declared rule sequence.
func (c *Config) CompileRules() (*sanitize.RuleSet, error) {
	return sanitize.Compile(c.Rules)
}

// ReadTags returns the parsed cache read tags. Call Validate first.
func (c *Config) ReadTags() cache.Tags {
	tags, err := cache.ParseTags(c.CacheRead)
	if err != nil {
		return cache.Tags{}
	}
	return tags
}

// WriteTags returns the parsed cache write tags. Call Validate first.
func (c *Config) WriteTags() cache.Tags {
	tags, err := cache.ParseTags(c.CacheWrite)
	if err != nil {
		return cache.Tags{}
	}
	return tags
}

// SideConfigFor returns the per-side request configuration for the
// given side name, zero-valued when absent.
func (c *Config) SideConfigFor(side string) SideConfig {
	if c.Sides == nil {
		return SideConfig{}
	}
	return c.Sides[side]
}

// validateBaseURL checks that a base URL is absolute http(s).
func validateBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidBaseURL, base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}
	return nil
}
