package report

import (
	"io"

	"github.com/nao1215/sitediff/internal/model"
)

// Writer outputs a run report in some format.
//
// Implementations write to files, stdout, or any io.Writer with the
// same API; the format is the implementation's concern.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
