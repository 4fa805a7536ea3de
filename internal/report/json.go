package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/sitediff/internal/model"
)

// JSONWriter outputs reports as indented JSON for machine consumption
// (CI gates, dashboards).
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as JSON.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
