// Package server provides the local preview server for a run's output
// directory, so failure artifacts can be browsed without deploying them
// anywhere.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// DefaultAddr is the default listen address for the preview server.
const DefaultAddr = "127.0.0.1:8877"

// Serve serves dir over HTTP at addr until ctx is cancelled, then shuts
// down gracefully. The directory must exist; serving an empty or stale
// directory is almost always a mistyped path.
func Serve(ctx context.Context, addr, dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot serve %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot serve %s: not a directory", dir)
	}

	mux := http.NewServeMux()
	mux.Handle("/", logRequests(logger, http.FileServer(http.Dir(dir))))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", "addr", addr, "dir", dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("preview server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logRequests logs each request at debug level.
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("serving", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
