package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/sitediff/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown, suited to
// CI job summaries and migration documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFailingPaths(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Site Comparison Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Before", "`" + report.BeforeBase + "`"},
			{"After", "`" + report.AfterBase + "`"},
			{"Date", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Paths", strconv.Itoa(report.TotalPaths())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the outcome counts and a pass/fail alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.Report) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Identical", strconv.Itoa(report.IdenticalCount)},
			{"❌ Different", strconv.Itoa(report.DifferentCount)},
			{"⚠️ Error", strconv.Itoa(report.ErrorCount)},
		},
	})
	md.PlainText("")

	switch {
	case report.ErrorCount > 0:
		md.Warningf("%d path(s) could not be fetched; see failing paths below.", report.ErrorCount)
	case report.DifferentCount > 0:
		md.Cautionf("%d path(s) diverge between the two deployments.", report.DifferentCount)
	default:
		md.Tip("All compared paths are identical after sanitization.")
	}
	md.PlainText("")
}

// writeFailingPaths writes one section per failing path.
func (w *MarkdownWriter) writeFailingPaths(md *markdown.Markdown, report *model.Report) {
	failing := report.FailingResults()
	if len(failing) == 0 {
		return
	}

	md.H2("Failing Paths")
	md.PlainText("")

	for _, res := range failing {
		md.H3("`" + res.Path + "`")
		md.PlainText("")

		if res.Status == model.StatusError {
			md.PlainText("Fetch error: " + res.ErrorMessage)
			md.PlainText("")
			continue
		}

		md.CodeBlocks(markdown.SyntaxHighlight("diff"), res.Detail)
		md.PlainText("")
	}
}
