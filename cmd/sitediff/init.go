package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/crawl"
	"github.com/nao1215/sitediff/internal/log"
)

//go:embed templates/sitediff.yml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new sitediff configuration file",
		Long: `Init creates a new .sitediff.yml configuration file in the current
directory, with documented defaults and example sanitization rules.

With --crawl, init also spiders the given base URL and writes the
discovered paths to a paths file, so the path list does not have to be
assembled by hand.

Examples:
  # Create .sitediff.yml in the current directory
  sitediff init

  # Create the config at a specific path
  sitediff init -o configs/migration.yml

  # Discover paths from the old deployment while it is still up
  sitediff init --crawl https://old.example.com --paths-out paths.txt`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.ConfigFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")
	cmd.Flags().String("crawl", "",
		"Discover paths by crawling this base URL")
	cmd.Flags().String("paths-out", "paths.txt",
		"Where to write discovered paths (with --crawl)")
	cmd.Flags().Int("depth", crawl.DefaultMaxDepth,
		"Maximum crawl depth (with --crawl)")
	cmd.Flags().Int("max-pages", crawl.DefaultMaxPages,
		"Maximum pages to visit (with --crawl)")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/sitediff.yml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	fmt.Printf("Created configuration file: %s\n", outputPath)

	crawlBase, err := cmd.Flags().GetString("crawl")
	if err != nil {
		return err
	}
	if crawlBase != "" {
		if err := runInitCrawl(cmd, crawlBase, force); err != nil {
			return err
		}
	}

	fmt.Println("\nEdit the configuration to set:")
	fmt.Println("  - The before and after base URLs")
	fmt.Println("  - The paths to compare (or a paths file)")
	fmt.Println("  - Sanitization rules for expected differences")

	return nil
}

// runInitCrawl discovers paths from a live deployment and writes them
// to the paths file.
func runInitCrawl(cmd *cobra.Command, baseURL string, force bool) error {
	pathsOut, err := cmd.Flags().GetString("paths-out")
	if err != nil {
		return err
	}
	depth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return err
	}
	maxPages, err := cmd.Flags().GetInt("max-pages")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(pathsOut); err == nil {
			return fmt.Errorf("paths file already exists: %s (use -f to overwrite)", pathsOut)
		}
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("Crawling %s (depth %d, max %d pages)...\n", baseURL, depth, maxPages)

	client := resty.New().SetTimeout(config.DefaultTimeout)
	spider := crawl.NewSpider(client,
		crawl.WithMaxDepth(depth),
		crawl.WithMaxPages(maxPages),
		crawl.WithLogger(logger),
	)

	paths, err := spider.Discover(ctx, baseURL)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no paths discovered at %s", baseURL)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Paths discovered from %s on %s\n",
		baseURL, time.Now().Format("2006-01-02"))
	for _, p := range paths {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(pathsOut, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write paths file: %w", err)
	}

	fmt.Printf("Wrote %d paths to %s\n", len(paths), pathsOut)
	return nil
}
