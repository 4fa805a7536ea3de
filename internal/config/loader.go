package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/sitediff/internal/sanitize"
)

// ConfigFileName is the name of the configuration file searched for in
// the current and home directories.
const ConfigFileName = ".sitediff.yml"

// Duration wraps time.Duration so YAML values like "30s" and "2m" parse
// with time.ParseDuration instead of as integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// File is the on-disk YAML configuration shape. Every field is
// optional; values present in the file replace the corresponding Config
// fields, and CLI flags replace both.
type File struct {
	Before struct {
		BaseURL string            `yaml:"base_url"`
		Cookie  string            `yaml:"cookie,omitempty"`
		Headers map[string]string `yaml:"headers,omitempty"`
	} `yaml:"before"`
	After struct {
		BaseURL string            `yaml:"base_url"`
		Cookie  string            `yaml:"cookie,omitempty"`
		Headers map[string]string `yaml:"headers,omitempty"`
	} `yaml:"after"`

	Paths     []string              `yaml:"paths,omitempty"`
	PathsFile string                `yaml:"paths_file,omitempty"`
	Rules     []sanitize.RuleConfig `yaml:"rules,omitempty"`

	Cache struct {
		Dir   string `yaml:"dir,omitempty"`
		Read  string `yaml:"read,omitempty"`
		Write string `yaml:"write,omitempty"`
	} `yaml:"cache,omitempty"`

	Concurrency int      `yaml:"concurrency,omitempty"`
	Timeout     Duration `yaml:"timeout,omitempty"`
	UserAgent   string   `yaml:"user_agent,omitempty"`

	Output struct {
		Dir          string `yaml:"dir,omitempty"`
		FailuresFile string `yaml:"failures_file,omitempty"`
		BeforeURL    string `yaml:"before_url,omitempty"`
		AfterURL     string `yaml:"after_url,omitempty"`
	} `yaml:"output,omitempty"`
}

// LoadConfigFile reads and parses the YAML configuration at path.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfigFile, err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseConfigFile, err)
	}
	return &file, nil
}

// FindConfigFile resolves the configuration file location. An explicit
// path wins when it exists; otherwise the current directory and then
// the user's home directory are searched. It returns an empty string
// when no file exists.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Apply merges the file's values into cfg. Only values actually present
// in the file overwrite; zero values leave cfg untouched so flag and
// constructor defaults survive.
func (f *File) Apply(cfg *Config) {
	if f.Before.BaseURL != "" {
		cfg.BeforeBase = f.Before.BaseURL
	}
	if f.After.BaseURL != "" {
		cfg.AfterBase = f.After.BaseURL
	}

	if f.Before.Cookie != "" || len(f.Before.Headers) > 0 {
		f.applySide(cfg, "before", f.Before.Cookie, f.Before.Headers)
	}
	if f.After.Cookie != "" || len(f.After.Headers) > 0 {
		f.applySide(cfg, "after", f.After.Cookie, f.After.Headers)
	}

	if len(f.Paths) > 0 {
		cfg.Paths = f.Paths
	}
	if f.PathsFile != "" {
		cfg.PathsFile = f.PathsFile
	}
	if len(f.Rules) > 0 {
		cfg.Rules = f.Rules
	}

	if f.Cache.Dir != "" {
		cfg.CacheDir = f.Cache.Dir
	}
	if f.Cache.Read != "" {
		cfg.CacheRead = f.Cache.Read
	}
	if f.Cache.Write != "" {
		cfg.CacheWrite = f.Cache.Write
	}

	if f.Concurrency > 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Timeout > 0 {
		cfg.Timeout = time.Duration(f.Timeout)
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}

	if f.Output.Dir != "" {
		cfg.OutputDir = f.Output.Dir
	}
	if f.Output.FailuresFile != "" {
		cfg.FailuresFile = f.Output.FailuresFile
	}
	if f.Output.BeforeURL != "" {
		cfg.BeforeReportURL = f.Output.BeforeURL
	}
	if f.Output.AfterURL != "" {
		cfg.AfterReportURL = f.Output.AfterURL
	}
}

func (f *File) applySide(cfg *Config, side, cookie string, headers map[string]string) {
	if cfg.Sides == nil {
		cfg.Sides = make(map[string]SideConfig)
	}
	sc := cfg.Sides[side]
	if cookie != "" {
		sc.Cookie = cookie
	}
	if len(headers) > 0 {
		sc.Headers = headers
	}
	cfg.Sides[side] = sc
}

// LoadPathsFile reads a newline-delimited paths file. Blank lines and
// lines starting with # are skipped; everything else is taken verbatim
// and normalized later by the pipeline.
func LoadPathsFile(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadPathsFile, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadPathsFile, err)
	}
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	return paths, nil
}
