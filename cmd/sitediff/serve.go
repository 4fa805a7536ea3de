package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/log"
	"github.com/nao1215/sitediff/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve failure artifacts over HTTP for local review",
		Long: `Serve starts a local HTTP server over the artifact directory written by
diff, so the per-path HTML diff pages can be browsed instead of opened
file by file.

Examples:
  # Serve the default artifact directory
  sitediff serve

  # Serve a custom directory on a custom address
  sitediff serve -d reports/migration-42 --addr 127.0.0.1:9000`,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", server.DefaultAddr, "Listen address")
	cmd.Flags().StringP("dir", "d", config.DefaultOutputDir, "Artifact directory to serve")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	fmt.Printf("Serving %s on http://%s (Ctrl+C to stop)\n", dir, addr)
	return server.Serve(ctx, addr, dir, logger)
}
