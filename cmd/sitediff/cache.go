package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitediff/internal/cache"
	"github.com/nao1215/sitediff/internal/config"
)

// NewCacheCmd creates the cache command and its subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the page cache",
		Long: `Cache manages the local SQLite page cache that diff reads from and
writes to. Entries are keyed by side ("before" or "after") and path.

Examples:
  # List every cached entry
  sitediff cache list

  # List only entries for the before side
  sitediff cache list --side before

  # Drop the after side, keeping the before capture
  sitediff cache clear --side after`,
	}

	cmd.PersistentFlags().String("cache-dir", "", "Cache directory (default: XDG data directory)")
	cmd.PersistentFlags().StringP("side", "s", cache.TagsAll,
		"Sides to operate on: all, before, after")

	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

// newCacheListCmd creates the cache list subcommand.
func newCacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, tags, err := openCacheStore(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			entries, err := store.List(cmd.Context(), tags)
			if err != nil {
				return fmt.Errorf("failed to list cache: %w", err)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-40s %-8s %s\n", "SIDE", "PATH", "STATUS", "FETCHED")
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-40s %-8d %s\n",
					e.Side, e.Path, e.StatusCode, e.FetchedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d entries\n", len(entries))
			return nil
		},
	}
}

// newCacheClearCmd creates the cache clear subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete cached pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, tags, err := openCacheStore(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			deleted, err := store.Clear(cmd.Context(), tags)
			if err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cached entries (%s)\n", deleted, tags)
			return nil
		},
	}
}

// openCacheStore opens the cache store from the shared cache flags.
// Unlike diff, cache management treats an unopenable cache as fatal.
func openCacheStore(cmd *cobra.Command) (*cache.Store, cache.Tags, error) {
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, cache.Tags{}, err
	}
	if dir == "" {
		dir = config.XDGDataDir()
	}

	side, err := cmd.Flags().GetString("side")
	if err != nil {
		return nil, cache.Tags{}, err
	}
	tags, err := cache.ParseTags(side)
	if err != nil {
		return nil, cache.Tags{}, err
	}

	store, err := cache.Open(dir, cache.DefaultOptions())
	if err != nil {
		return nil, cache.Tags{}, fmt.Errorf("failed to open cache in %s: %w", dir, err)
	}
	return store, tags, nil
}
