// Package main provides the entry point for the sitediff CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes. Failing comparisons and broken configuration are
// distinguished so CI jobs can tell "the site regressed" apart from
// "the job is misconfigured".
const (
	exitOK           = 0
	exitFailingPaths = 1
	exitConfigError  = 2
)

// NewRootCmd creates the root command for sitediff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitediff",
		Short: "Compare page content across two deployments of a site",
		Long: `sitediff fetches the same paths from a "before" and an "after" deployment,
sanitizes away expected noise (timestamps, build hashes, session markup),
and diffs what remains. It is built for site migrations: prove that the
new stack serves the same content as the old one, path by path.

Fetched pages are cached in a local SQLite database so the "before" side
can be captured once and replayed after the old deployment is gone.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewDiffCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and maps its outcome to an exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		if errors.Is(err, errFailingPaths) {
			fmt.Fprintln(os.Stderr, err)
			return exitFailingPaths
		}
		fmt.Fprintln(os.Stderr, err)
		return exitConfigError
	}
	return exitOK
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
