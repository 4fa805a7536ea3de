package model

import "time"

// FetchResult is the outcome of retrieving one path from one side.
// Exactly one of Content or Err is meaningful: a failed fetch carries no
// content and a successful fetch carries no error.
type FetchResult struct {
	// Path is the normalized site-relative path that was fetched.
	Path string

	// Side identifies which deployment the content came from.
	Side Side

	// URL is the absolute URL that was (or would have been) requested.
	URL string

	// Content is the UTF-8 decoded response body on success.
	Content string

	// StatusCode is the HTTP status of the response, or zero when the
	// request never produced one (transport failure, cache hit metadata
	// without a recorded status).
	StatusCode int

	// FromCache is true when the content was served from the persistent
	// cache without network I/O.
	FromCache bool

	// Err is the typed fetch error on failure.
	Err error
}

// OK reports whether the fetch produced usable content.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// DiffStatus classifies the outcome of comparing one path.
type DiffStatus string

const (
	// StatusIdentical means both sanitized documents were equal.
	StatusIdentical DiffStatus = "identical"

	// StatusDifferent means the sanitized documents diverged.
	StatusDifferent DiffStatus = "different"

	// StatusError means at least one side could not be fetched, so no
	// comparison was performed.
	StatusError DiffStatus = "error"
)

// DiffResult is the per-path outcome of the compare pipeline.
type DiffResult struct {
	// Path is the normalized site-relative path.
	Path string `json:"path"`

	// Status is identical, different, or error.
	Status DiffStatus `json:"status"`

	// Detail holds the unified line diff when Status is StatusDifferent.
	Detail string `json:"detail,omitempty"`

	// ErrorMessage describes the failure when Status is StatusError.
	ErrorMessage string `json:"error,omitempty"`

	// Before and After hold the sanitized documents that were compared.
	// They are kept for artifact rendering and excluded from JSON output
	// to keep reports small.
	Before string `json:"-"`
	After  string `json:"-"`
}

// Failing reports whether this path counts against the run.
// Both divergent and errored paths are failing paths.
func (d DiffResult) Failing() bool {
	return d.Status == StatusDifferent || d.Status == StatusError
}

// Report aggregates the per-path results of one run.
// Results are kept in input path order, never completion order.
type Report struct {
	// BeforeBase and AfterBase are the base URLs the run fetched against.
	BeforeBase string `json:"before_base"`
	AfterBase  string `json:"after_base"`

	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Results holds one DiffResult per configured path, in input order.
	Results []DiffResult `json:"results"`

	// IdenticalCount, DifferentCount, and ErrorCount summarize Results.
	IdenticalCount int `json:"identical"`
	DifferentCount int `json:"different"`
	ErrorCount     int `json:"errors"`
}

// NewReport creates an empty report for the given base URLs.
func NewReport(beforeBase, afterBase string) *Report {
	return &Report{
		BeforeBase: beforeBase,
		AfterBase:  afterBase,
	}
}

// Summarize recomputes the status counts from Results and stamps the
// generation time. Call it once after all results are in place.
func (r *Report) Summarize() {
	r.IdenticalCount, r.DifferentCount, r.ErrorCount = 0, 0, 0
	for _, res := range r.Results {
		switch res.Status {
		case StatusIdentical:
			r.IdenticalCount++
		case StatusDifferent:
			r.DifferentCount++
		case StatusError:
			r.ErrorCount++
		}
	}
	r.GeneratedAt = time.Now()
}

// FailingPaths returns the paths whose status is different or error,
// in input order.
func (r *Report) FailingPaths() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Failing() {
			paths = append(paths, res.Path)
		}
	}
	return paths
}

// FailingResults returns the failing results in input order.
func (r *Report) FailingResults() []DiffResult {
	var out []DiffResult
	for _, res := range r.Results {
		if res.Failing() {
			out = append(out, res)
		}
	}
	return out
}

// Failed reports whether the run had any failing path.
// A failed run still completes; this only drives exit status and reporting.
func (r *Report) Failed() bool {
	return r.DifferentCount > 0 || r.ErrorCount > 0
}

// TotalPaths returns the number of compared paths.
func (r *Report) TotalPaths() int {
	return len(r.Results)
}
