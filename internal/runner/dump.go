package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/sitediff/internal/diff"
	"github.com/nao1215/sitediff/internal/model"
)

// FailuresFileName is the default name of the failing-paths list inside
// the output directory.
const FailuresFileName = "failures.txt"

// DumpOptions configures Dump.
type DumpOptions struct {
	// OutputDir receives the per-path diff artifacts and, by default,
	// the failures file.
	OutputDir string

	// FailuresFile overrides where the failing-paths list is written.
	// Empty means OutputDir/failures.txt.
	FailuresFile string

	// BeforeReportURL and AfterReportURL are display-only base URLs
	// embedded in the artifacts, e.g. a public URL when the fetch went
	// through an internal tunnel. Empty values fall back to the fetch
	// bases; neither ever affects fetch behavior.
	BeforeReportURL string
	AfterReportURL  string
}

// Dump persists the run's failure artifacts: one HTML diff page per
// failing path under OutputDir, named by the path's slug, plus the
// ordered list of failing paths in the failures file. The failures file
// is written even when the run is clean, so consumers can rely on its
// existence.
func Dump(report *model.Report, opts DumpOptions) error {
	if opts.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(opts.OutputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	beforeURL := opts.BeforeReportURL
	if beforeURL == "" {
		beforeURL = report.BeforeBase
	}
	afterURL := opts.AfterReportURL
	if afterURL == "" {
		afterURL = report.AfterBase
	}

	failuresFile := opts.FailuresFile
	if failuresFile == "" {
		failuresFile = filepath.Join(opts.OutputDir, FailuresFileName)
	}

	failing := report.FailingPaths()
	var list strings.Builder
	for _, path := range failing {
		list.WriteString(path)
		list.WriteByte('\n')
	}
	if err := os.WriteFile(failuresFile, []byte(list.String()), 0600); err != nil {
		return fmt.Errorf("failed to write failing paths file: %w", err)
	}

	for _, result := range report.FailingResults() {
		artifact, err := diff.RenderArtifact(result, beforeURL, afterURL)
		if err != nil {
			return fmt.Errorf("failed to render artifact for %s: %w", result.Path, err)
		}

		name := model.PathSlug(result.Path) + ".html"
		if err := os.WriteFile(filepath.Join(opts.OutputDir, name), artifact, 0600); err != nil {
			return fmt.Errorf("failed to write artifact for %s: %w", result.Path, err)
		}
	}

	return nil
}
