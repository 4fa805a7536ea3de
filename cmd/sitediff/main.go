// Package main provides the entry point for the sitediff CLI.
//
// sitediff compares the same set of pages across two deployments of a
// site, before and after a migration, and reports which paths changed.
//
// Usage:
//
//	sitediff diff --before https://old.example.com --after https://new.example.com /about /pricing
//	sitediff diff --paths-file paths.txt
//
// See --help for all available options.
package main

import "os"

// main is the entry point for sitediff.
func main() {
	os.Exit(Execute())
}
