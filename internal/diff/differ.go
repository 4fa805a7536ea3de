package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/nao1215/sitediff/internal/model"
)

// contextLines is the number of unchanged lines kept on each edge of an
// equal block when rendering the unified detail. Longer equal runs are
// elided.
const contextLines = 3

// Compare diffs two sanitized documents for one path.
// Equal documents yield StatusIdentical; otherwise the result carries a
// line-level unified diff in Detail. Compare is deterministic and
// side-effect free: no network, no cache, no clock.
func Compare(path, before, after string) model.DiffResult {
	result := model.DiffResult{
		Path:   path,
		Before: before,
		After:  after,
	}

	if before == after {
		result.Status = model.StatusIdentical
		return result
	}

	result.Status = model.StatusDifferent
	result.Detail = unified(lineDiff(before, after))
	return result
}

// Errored builds the DiffResult for a path whose fetch failed on at
// least one side. No comparison is performed for such paths.
func Errored(path, message string) model.DiffResult {
	return model.DiffResult{
		Path:         path,
		Status:       model.StatusError,
		ErrorMessage: message,
	}
}

// lineDiff computes a line-mode diff between the two documents.
// Texts are mapped to per-line runes first so the diff operates on whole
// lines, which keeps the output readable for markup.
func lineDiff(before, after string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	beforeRunes, afterRunes, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeRunes, afterRunes, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// unified renders a line diff in unified style: deletions prefixed with
// "-", insertions with "+", retained context with a space. Equal runs
// longer than twice contextLines are elided with a "..." marker.
func unified(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder

	for i, d := range diffs {
		lines := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writeLines(&b, "-", lines)
		case diffmatchpatch.DiffInsert:
			writeLines(&b, "+", lines)
		case diffmatchpatch.DiffEqual:
			writeLines(&b, " ", trimContext(lines, i == 0, i == len(diffs)-1))
		}
	}

	return b.String()
}

// splitLines splits diff text into lines without a trailing empty
// element for the final newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// writeLines writes each line with the given unified-diff prefix.
func writeLines(b *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

// trimContext elides the middle of a long equal block. The leading edge
// is dropped entirely for the first block and the trailing edge for the
// last, since there is no change on that side to anchor.
func trimContext(lines []string, isFirst, isLast bool) []string {
	keepHead, keepTail := contextLines, contextLines
	if isFirst {
		keepHead = 0
	}
	if isLast {
		keepTail = 0
	}

	if len(lines) <= keepHead+keepTail+1 {
		if isFirst && len(lines) > keepTail {
			return lines[len(lines)-keepTail:]
		}
		if isLast && len(lines) > keepHead {
			return lines[:keepHead]
		}
		return lines
	}

	out := make([]string, 0, keepHead+keepTail+1)
	if isFirst {
		out = append(out, "...")
		out = append(out, lines[len(lines)-keepTail:]...)
		return out
	}
	if isLast {
		out = append(out, lines[:keepHead]...)
		out = append(out, "...")
		return out
	}

	out = append(out, lines[:keepHead]...)
	out = append(out, "...")
	out = append(out, lines[len(lines)-keepTail:]...)
	return out
}
