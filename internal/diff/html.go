package diff

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/nao1215/sitediff/internal/model"
)

// artifactTemplate renders one failing path as a standalone HTML page.
// Deletions and insertions are styled inline so the artifact needs no
// external assets.
var artifactTemplate = template.Must(template.New("artifact").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>sitediff: {{.Path}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.2em; }
.links a { margin-right: 1.5em; }
.status-error { color: #b30000; }
pre { background: #f6f8fa; padding: 1em; overflow-x: auto; font-size: 0.85em; }
.del { background: #ffdce0; display: block; }
.ins { background: #d1f5d3; display: block; }
.ctx { display: block; color: #555; }
</style>
</head>
<body>
<h1>{{.Path}} &mdash; {{.Status}}</h1>
<p class="links">
<a href="{{.BeforeURL}}">before</a>
<a href="{{.AfterURL}}">after</a>
</p>
{{if .ErrorMessage}}<p class="status-error">{{.ErrorMessage}}</p>{{end}}
{{if .Lines}}<pre>{{range .Lines}}<span class="{{.Class}}">{{.Text}}</span>{{end}}</pre>{{end}}
</body>
</html>
`))

// artifactLine is one rendered diff line.
type artifactLine struct {
	Class string
	Text  string
}

// artifactData is the template input for one artifact page.
type artifactData struct {
	Path         string
	Status       model.DiffStatus
	BeforeURL    string
	AfterURL     string
	ErrorMessage string
	Lines        []artifactLine
}

// RenderArtifact renders the HTML diff artifact for one failing path.
// beforeURL and afterURL are display-only report bases: they only affect
// the links embedded in the page, never what was fetched.
func RenderArtifact(result model.DiffResult, beforeURL, afterURL string) ([]byte, error) {
	data := artifactData{
		Path:         result.Path,
		Status:       result.Status,
		BeforeURL:    joinURL(beforeURL, result.Path),
		AfterURL:     joinURL(afterURL, result.Path),
		ErrorMessage: result.ErrorMessage,
	}

	for _, line := range splitLines(result.Detail) {
		al := artifactLine{Text: line}
		switch {
		case strings.HasPrefix(line, "-"):
			al.Class = "del"
		case strings.HasPrefix(line, "+"):
			al.Class = "ins"
		default:
			al.Class = "ctx"
		}
		data.Lines = append(data.Lines, al)
	}

	var buf bytes.Buffer
	if err := artifactTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render diff artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// joinURL joins a base URL and a path with exactly one slash at the seam.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
