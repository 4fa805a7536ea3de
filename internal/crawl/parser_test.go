package crawl

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestExtractPaths tests same-host link extraction.
func TestExtractPaths(t *testing.T) {
	t.Parallel()

	pageURL, err := url.Parse("https://old.example.com/")
	if err != nil {
		t.Fatalf("failed to parse URL: %v", err)
	}

	t.Run("keeps same-host links in document order", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<a href="/about">About</a>
			<a href="pricing">Pricing</a>
			<a href="https://old.example.com/docs">Docs</a>
		</body></html>`

		paths, err := extractPaths(pageURL, strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"/about", "/pricing", "/docs"}
		if diff := cmp.Diff(want, paths); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("skips off-host and non-page links", func(t *testing.T) {
		t.Parallel()

		doc := `<html><body>
			<a href="https://other.example.com/">external</a>
			<a href="#section">fragment</a>
			<a href="mailto:team@example.com">mail</a>
			<a href="javascript:void(0)">js</a>
			<a href="/keep">keep</a>
		</body></html>`

		paths, err := extractPaths(pageURL, strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"/keep"}
		if diff := cmp.Diff(want, paths); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("host comparison ignores case", func(t *testing.T) {
		t.Parallel()

		doc := `<a href="https://OLD.EXAMPLE.COM/upper">x</a>`
		paths, err := extractPaths(pageURL, strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(paths) != 1 || paths[0] != "/upper" {
			t.Errorf("paths = %v, want [/upper]", paths)
		}
	})

	t.Run("malformed markup still yields links", func(t *testing.T) {
		t.Parallel()

		doc := `<body><a href="/a">one<a href="/b">two</p></div>`
		paths, err := extractPaths(pageURL, strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"/a", "/b"}
		if diff := cmp.Diff(want, paths); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("relative link resolves against page URL", func(t *testing.T) {
		t.Parallel()

		deepURL, err := url.Parse("https://old.example.com/docs/intro")
		if err != nil {
			t.Fatalf("failed to parse URL: %v", err)
		}

		paths, err := extractPaths(deepURL, strings.NewReader(`<a href="setup">setup</a>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(paths) != 1 || paths[0] != "/docs/setup" {
			t.Errorf("paths = %v, want [/docs/setup]", paths)
		}
	})
}
