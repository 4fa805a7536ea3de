package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nao1215/sitediff/internal/cache"
	"github.com/nao1215/sitediff/internal/model"
)

// seedCache creates a cache directory with one entry per side.
func seedCache(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	store, err := cache.Open(dir, cache.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	for _, side := range model.Sides() {
		entry := cache.Entry{
			Side:       side,
			Path:       "/about",
			Content:    "<p>about</p>",
			SourceURL:  "https://example.com/about",
			StatusCode: 200,
		}
		if err := store.Put(context.Background(), entry); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	return dir
}

// runCacheCommand executes a cache subcommand and captures its output.
func runCacheCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(append([]string{"cache"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// TestCacheListCmd tests the cache list subcommand.
func TestCacheListCmd(t *testing.T) {
	t.Run("lists both sides", func(t *testing.T) {
		dir := seedCache(t)

		out, err := runCacheCommand(t, "list", "--cache-dir", dir)
		if err != nil {
			t.Fatalf("cache list failed: %v", err)
		}
		if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
			t.Errorf("output missing sides:\n%s", out)
		}
		if !strings.Contains(out, "/about") {
			t.Errorf("output missing path:\n%s", out)
		}
		if !strings.Contains(out, "2 entries") {
			t.Errorf("output missing count:\n%s", out)
		}
	})

	t.Run("side flag filters", func(t *testing.T) {
		dir := seedCache(t)

		out, err := runCacheCommand(t, "list", "--cache-dir", dir, "--side", "before")
		if err != nil {
			t.Fatalf("cache list failed: %v", err)
		}
		if !strings.Contains(out, "1 entries") {
			t.Errorf("expected one entry:\n%s", out)
		}
	})

	t.Run("empty cache", func(t *testing.T) {
		out, err := runCacheCommand(t, "list", "--cache-dir", t.TempDir())
		if err != nil {
			t.Fatalf("cache list failed: %v", err)
		}
		if !strings.Contains(out, "cache is empty") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("bad side flag", func(t *testing.T) {
		if _, err := runCacheCommand(t, "list", "--cache-dir", t.TempDir(), "--side", "both"); err == nil {
			t.Error("expected error for bad side selector")
		}
	})
}

// TestCacheClearCmd tests the cache clear subcommand.
func TestCacheClearCmd(t *testing.T) {
	t.Run("clears one side", func(t *testing.T) {
		dir := seedCache(t)

		out, err := runCacheCommand(t, "clear", "--cache-dir", dir, "--side", "before")
		if err != nil {
			t.Fatalf("cache clear failed: %v", err)
		}
		if !strings.Contains(out, "Deleted 1 cached entries (before)") {
			t.Errorf("output = %q", out)
		}

		listOut, err := runCacheCommand(t, "list", "--cache-dir", dir)
		if err != nil {
			t.Fatalf("cache list failed: %v", err)
		}
		if !strings.Contains(listOut, "1 entries") {
			t.Errorf("expected one surviving entry:\n%s", listOut)
		}
	})

	t.Run("clears everything by default", func(t *testing.T) {
		dir := seedCache(t)

		out, err := runCacheCommand(t, "clear", "--cache-dir", dir)
		if err != nil {
			t.Fatalf("cache clear failed: %v", err)
		}
		if !strings.Contains(out, "Deleted 2 cached entries (all)") {
			t.Errorf("output = %q", out)
		}
	})
}
