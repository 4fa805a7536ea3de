package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runInitCommand executes the init subcommand with the given arguments.
func runInitCommand(t *testing.T, args ...string) error {
	t.Helper()

	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"init"}, args...))
	return cmd.Execute()
}

// TestInitCmd tests configuration scaffolding.
func TestInitCmd(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), ".sitediff.yml")

		if err := runInitCommand(t, "-o", out); err != nil {
			t.Fatalf("init failed: %v", err)
		}

		content, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("failed to read created config: %v", err)
		}
		for _, want := range []string{"before:", "after:", "rules:", "cache:"} {
			if !strings.Contains(string(content), want) {
				t.Errorf("template missing %q", want)
			}
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "configs", "nested", "migration.yml")

		if err := runInitCommand(t, "-o", out); err != nil {
			t.Fatalf("init failed: %v", err)
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("config not created: %v", err)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), ".sitediff.yml")
		if err := os.WriteFile(out, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		err := runInitCommand(t, "-o", out)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("error = %v, want already-exists error", err)
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), ".sitediff.yml")
		if err := os.WriteFile(out, []byte("existing"), 0600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		if err := runInitCommand(t, "-o", out, "-f"); err != nil {
			t.Fatalf("init -f failed: %v", err)
		}

		content, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("failed to read config: %v", err)
		}
		if string(content) == "existing" {
			t.Error("expected file to be overwritten")
		}
	})
}

// TestInitCmdCrawl tests path discovery during init.
func TestInitCmdCrawl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`<a href="/about">about</a>`))
		case "/about":
			_, _ = w.Write([]byte("about page"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, ".sitediff.yml")
	pathsOut := filepath.Join(dir, "paths.txt")

	err := runInitCommand(t,
		"-o", out,
		"--crawl", srv.URL,
		"--paths-out", pathsOut,
	)
	if err != nil {
		t.Fatalf("init --crawl failed: %v", err)
	}

	paths, err := os.ReadFile(pathsOut)
	if err != nil {
		t.Fatalf("failed to read paths file: %v", err)
	}
	for _, want := range []string{"/\n", "/about\n"} {
		if !strings.Contains(string(paths), want) {
			t.Errorf("paths file missing %q:\n%s", want, paths)
		}
	}
}
