package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// freeAddr reserves a loopback address for the test server.
func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

// TestServe tests serving artifacts and graceful shutdown.
func TestServe(t *testing.T) {
	t.Parallel()

	t.Run("serves files until cancelled", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		body := "<html><body>artifact</body></html>"
		if err := os.WriteFile(filepath.Join(dir, "about.html"), []byte(body), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		addr := freeAddr(t)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- Serve(ctx, addr, dir, nil)
		}()

		// Wait for the listener to come up.
		url := fmt.Sprintf("http://%s/about.html", addr)
		var resp *http.Response
		var err error
		for i := 0; i < 50; i++ {
			resp, err = http.Get(url)
			if err == nil {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		if err != nil {
			cancel()
			t.Fatalf("server never came up: %v", err)
		}
		defer resp.Body.Close()

		got, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read response: %v", err)
		}
		if string(got) != body {
			t.Errorf("body = %q, want %q", got, body)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve returned error after cancel: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "absent")
		if err := Serve(context.Background(), freeAddr(t), dir, nil); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("file path is an error", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "plain.txt")
		if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		if err := Serve(context.Background(), freeAddr(t), file, nil); err == nil {
			t.Error("expected error for non-directory")
		}
	})
}
