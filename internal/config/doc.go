// Package config defines the sitediff run configuration, its YAML file
// format, and validation. Configuration is merged in order: built-in
// defaults, then the config file, then CLI flags.
package config
