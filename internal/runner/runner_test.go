package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/sitediff/internal/fetch"
	"github.com/nao1215/sitediff/internal/model"
	"github.com/nao1215/sitediff/internal/sanitize"
)

// testSite serves a fixed set of path -> body pages.
func testSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestRunIdentical tests a clean run over matching deployments.
func TestRunIdentical(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"/":      "<html><body>home</body></html>",
		"/about": "<html><body>about</body></html>",
	}
	before := testSite(t, pages)
	after := testSite(t, pages)

	r := New(fetch.New(before.URL, after.URL), nil)
	report := r.Run(context.Background(), []string{"/", "/about"})

	if report.Failed() {
		t.Fatalf("expected clean run, got %d different, %d errors",
			report.DifferentCount, report.ErrorCount)
	}
	if report.IdenticalCount != 2 {
		t.Errorf("IdenticalCount = %d, want 2", report.IdenticalCount)
	}
}

// TestRunDifferent tests that a changed page is reported with a diff.
func TestRunDifferent(t *testing.T) {
	t.Parallel()

	before := testSite(t, map[string]string{"/pricing": "<p>old price</p>"})
	after := testSite(t, map[string]string{"/pricing": "<p>new price</p>"})

	r := New(fetch.New(before.URL, after.URL), nil)
	report := r.Run(context.Background(), []string{"/pricing"})

	if !report.Failed() {
		t.Fatal("expected failing run")
	}
	res := report.Results[0]
	if res.Status != model.StatusDifferent {
		t.Fatalf("Status = %v, want %v", res.Status, model.StatusDifferent)
	}
	if !strings.Contains(res.Detail, "-<p>old price</p>") {
		t.Errorf("Detail missing deletion:\n%s", res.Detail)
	}
	if !strings.Contains(res.Detail, "+<p>new price</p>") {
		t.Errorf("Detail missing insertion:\n%s", res.Detail)
	}
}

// TestRunSanitizedDifference tests that sanitization runs before the
// diff: pages differing only in declared noise compare identical.
func TestRunSanitizedDifference(t *testing.T) {
	t.Parallel()

	before := testSite(t, map[string]string{"/": "<p>home</p><!-- build 1a2b3c4d -->"})
	after := testSite(t, map[string]string{"/": "<p>home</p><!-- build 9f8e7d6c -->"})

	rules, err := sanitize.Compile([]sanitize.RuleConfig{
		{Kind: sanitize.KindRegexp, Pattern: `<!-- build [0-9a-f]{8} -->`},
	})
	if err != nil {
		t.Fatalf("failed to compile rules: %v", err)
	}

	r := New(fetch.New(before.URL, after.URL), rules)
	report := r.Run(context.Background(), []string{"/"})

	if report.Failed() {
		t.Errorf("expected sanitized pages to compare identical, got %+v", report.Results[0])
	}
}

// TestRunFailureIsolation tests that one broken path never aborts the
// rest of the batch.
func TestRunFailureIsolation(t *testing.T) {
	t.Parallel()

	before := testSite(t, map[string]string{
		"/ok":   "<p>fine</p>",
		"/gone": "<p>only before has this</p>",
	})
	after := testSite(t, map[string]string{
		"/ok": "<p>fine</p>",
	})

	r := New(fetch.New(before.URL, after.URL), nil)
	report := r.Run(context.Background(), []string{"/ok", "/gone"})

	if report.IdenticalCount != 1 {
		t.Errorf("IdenticalCount = %d, want 1", report.IdenticalCount)
	}
	if report.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", report.ErrorCount)
	}

	errored := report.Results[1]
	if errored.Status != model.StatusError {
		t.Fatalf("Status = %v, want %v", errored.Status, model.StatusError)
	}
	if !strings.Contains(errored.ErrorMessage, "after:") {
		t.Errorf("ErrorMessage = %q, expected failing side to be named", errored.ErrorMessage)
	}
}

// TestRunBothSidesFail tests that both failures are reported for one path.
func TestRunBothSidesFail(t *testing.T) {
	t.Parallel()

	before := testSite(t, map[string]string{})
	after := testSite(t, map[string]string{})

	r := New(fetch.New(before.URL, after.URL), nil)
	report := r.Run(context.Background(), []string{"/missing"})

	msg := report.Results[0].ErrorMessage
	if !strings.Contains(msg, "before:") || !strings.Contains(msg, "after:") {
		t.Errorf("ErrorMessage = %q, expected both sides", msg)
	}
}

// TestRunInputOrder tests that results follow input order regardless of
// completion order.
func TestRunInputOrder(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"/a": "a", "/b": "b", "/c": "c", "/d": "d", "/e": "e",
	}
	before := testSite(t, pages)
	after := testSite(t, pages)

	input := []string{"/e", "/a", "/d", "/b", "/c"}

	r := New(fetch.New(before.URL, after.URL), nil, WithConcurrency(5))
	report := r.Run(context.Background(), input)

	var got []string
	for _, res := range report.Results {
		got = append(got, res.Path)
	}
	if diff := cmp.Diff(input, got); diff != "" {
		t.Errorf("result order mismatch (-want +got):\n%s", diff)
	}
}

// TestRunDeduplicatesPaths tests that normalized duplicates collapse.
func TestRunDeduplicatesPaths(t *testing.T) {
	t.Parallel()

	pages := map[string]string{"/about": "about"}
	before := testSite(t, pages)
	after := testSite(t, pages)

	r := New(fetch.New(before.URL, after.URL), nil)
	report := r.Run(context.Background(), []string{"/about", "about", "/about/"})

	if report.TotalPaths() != 1 {
		t.Errorf("TotalPaths() = %d, want 1", report.TotalPaths())
	}
}

// TestRunCancellation tests that a cancelled run still accounts for
// every path.
func TestRunCancellation(t *testing.T) {
	t.Parallel()

	pages := map[string]string{"/a": "a", "/b": "b", "/c": "c"}
	before := testSite(t, pages)
	after := testSite(t, pages)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(fetch.New(before.URL, after.URL), nil)
	report := r.Run(ctx, []string{"/a", "/b", "/c"})

	if report.TotalPaths() != 3 {
		t.Fatalf("TotalPaths() = %d, want 3", report.TotalPaths())
	}
	for _, res := range report.Results {
		if res.Status != model.StatusError {
			t.Errorf("path %s: Status = %v, want %v", res.Path, res.Status, model.StatusError)
		}
	}
}
