package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nao1215/sitediff/internal/model"
)

// TestMarkdownWriter tests the Markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("failing report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(testReport()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		out := buf.String()

		for _, want := range []string{
			"# Site Comparison Report",
			"## Summary",
			"## Failing Paths",
			"`https://old.example.com`",
			"### `/about`",
			"```diff",
			"-old",
			"+new",
			"### `/broken`",
			"Fetch error: after: status 500",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("clean report has no failing section", func(t *testing.T) {
		t.Parallel()

		rep := model.NewReport("https://old.example.com", "https://new.example.com")
		rep.Results = []model.DiffResult{{Path: "/", Status: model.StatusIdentical}}
		rep.Summarize()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(rep); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		out := buf.String()

		if strings.Contains(out, "## Failing Paths") {
			t.Errorf("clean report has failing section:\n%s", out)
		}
		if !strings.Contains(out, "identical after sanitization") {
			t.Errorf("clean report missing pass alert:\n%s", out)
		}
	})
}
