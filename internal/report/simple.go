package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sitediff/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
// Plain ASCII formatting works in every terminal and pipes cleanly to
// files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose includes the unified diff detail for each failing path.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes per-path diff detail in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "sitediff report\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&sb, "before: %s\n", report.BeforeBase)
	fmt.Fprintf(&sb, "after:  %s\n", report.AfterBase)
	fmt.Fprintf(&sb, "date:   %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&sb, "\nPaths compared: %d\n", report.TotalPaths())
	fmt.Fprintf(&sb, "  %-10s %d\n", "identical", report.IdenticalCount)
	fmt.Fprintf(&sb, "  %-10s %d\n", "different", report.DifferentCount)
	fmt.Fprintf(&sb, "  %-10s %d\n", "errors", report.ErrorCount)

	failing := report.FailingResults()
	if len(failing) > 0 {
		fmt.Fprintf(&sb, "\nFailing paths (%d):\n", len(failing))
		for _, res := range failing {
			switch res.Status {
			case model.StatusError:
				fmt.Fprintf(&sb, "  [error]     %s  (%s)\n", res.Path, res.ErrorMessage)
			default:
				fmt.Fprintf(&sb, "  [different] %s\n", res.Path)
			}

			if w.verbose && res.Detail != "" {
				for _, line := range strings.Split(strings.TrimRight(res.Detail, "\n"), "\n") {
					fmt.Fprintf(&sb, "      %s\n", line)
				}
			}
		}
	}

	if report.Failed() {
		sb.WriteString("\nResult: FAIL\n")
	} else {
		sb.WriteString("\nResult: PASS\n")
	}

	return w.output.Write([]byte(sb.String()))
}
