package fetch

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/sitediff/internal/cache"
	"github.com/nao1215/sitediff/internal/model"
)

// Default fetcher settings.
const (
	// DefaultTimeout bounds each HTTP request. The targets are live
	// sites, so a request that hangs must not stall its path worker
	// indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies sitediff in HTTP requests so site
	// operators can recognize comparison traffic in their logs.
	DefaultUserAgent = "sitediff/1.0 (+https://github.com/nao1215/sitediff)"

	// DefaultMaxBodySize caps the response body size read per page.
	// HTML pages beyond this are truncated rather than exhausting
	// memory.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Fetcher retrieves the content of one path from one side, consulting
// the cache first and writing live results through, both subject to the
// per-side tag policy carried by the cache.
//
// The HTTP client is shared across all requests so connection pooling
// and timeout configuration stay consistent for the whole run.
type Fetcher struct {
	client *resty.Client
	bases  map[model.Side]string
	cache  *cache.Cache
	events *Publisher

	headers     map[model.Side]map[string]string
	cookies     map[model.Side]string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithCache supplies the tag-gated cache. Without it every fetch is
// live and nothing is persisted.
func WithCache(c *cache.Cache) Option {
	return func(f *Fetcher) {
		f.cache = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.SetTimeout(timeout)
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.client.SetHeader("User-Agent", ua)
		}
	}
}

// WithSideHeaders sets extra request headers for one side. Useful when
// one deployment sits behind auth or a tunnel that needs a host header.
func WithSideHeaders(side model.Side, headers map[string]string) Option {
	return func(f *Fetcher) {
		if len(headers) > 0 {
			f.headers[side] = headers
		}
	}
}

// WithSideCookie sets a Cookie header for one side.
func WithSideCookie(side model.Side, cookie string) Option {
	return func(f *Fetcher) {
		if cookie != "" {
			f.cookies[side] = cookie
		}
	}
}

// WithMaxBodySize caps the response body size read per page.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithEvents sets the progress event publisher.
func WithEvents(p *Publisher) Option {
	return func(f *Fetcher) {
		f.events = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher for the two base URLs.
// Base URLs are stored without a trailing slash so URL joining always
// produces exactly one slash at the seam.
func New(beforeBase, afterBase string, opts ...Option) *Fetcher {
	client := resty.New()
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("User-Agent", DefaultUserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	f := &Fetcher{
		client: client,
		bases: map[model.Side]string{
			model.SideBefore: strings.TrimRight(beforeBase, "/"),
			model.SideAfter:  strings.TrimRight(afterBase, "/"),
		},
		headers:     make(map[model.Side]map[string]string),
		cookies:     make(map[model.Side]string),
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// BaseURL returns the base URL configured for a side.
func (f *Fetcher) BaseURL(side model.Side) string {
	return f.bases[side]
}

// JoinURL resolves the absolute URL for a path against a base URL,
// guaranteeing a single slash between them.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Fetch retrieves one path from one side.
//
// The cache is consulted first; a hit returns cached content without
// network I/O. On a live 2xx response the body is decoded to UTF-8 and
// written through to the cache. Non-2xx statuses and transport failures
// come back as a typed error on the FetchResult; they are captured, not
// thrown, so one path's failure never aborts the batch.
//
// Exactly one progress event is published per call, success or failure.
func (f *Fetcher) Fetch(ctx context.Context, side model.Side, path string) model.FetchResult {
	path = model.NormalizePath(path)
	url := JoinURL(f.bases[side], path)

	result := model.FetchResult{
		Path: path,
		Side: side,
		URL:  url,
	}

	if entry, ok := f.cache.Read(ctx, side, path); ok {
		result.Content = entry.Content
		result.StatusCode = entry.StatusCode
		result.FromCache = true

		f.logger.Debug("cache hit", "side", side, "path", path)
		f.events.Publish(Event{Path: path, Side: side, Outcome: OutcomeCached})
		return result
	}

	req := f.client.R().SetContext(ctx)
	for name, value := range f.headers[side] {
		req.SetHeader(name, value)
	}
	if cookie := f.cookies[side]; cookie != "" {
		req.SetHeader("Cookie", cookie)
	}

	resp, err := req.Get(url)
	if err != nil {
		result.Err = classify(url, err)
		f.logger.Debug("fetch failed", "side", side, "path", path, "error", result.Err)
		f.events.Publish(Event{Path: path, Side: side, Outcome: OutcomeFailed, Err: result.Err.Error()})
		return result
	}

	result.StatusCode = resp.StatusCode()
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		result.Err = statusError(url, resp.StatusCode())
		f.logger.Debug("fetch failed", "side", side, "path", path, "error", result.Err)
		f.events.Publish(Event{Path: path, Side: side, Outcome: OutcomeFailed, Err: result.Err.Error()})
		return result
	}

	body := resp.Body()
	if int64(len(body)) > f.maxBodySize {
		body = body[:f.maxBodySize]
	}
	result.Content = decodeBody(body, resp.Header().Get("Content-Type"))

	f.cache.Write(ctx, cache.Entry{
		Side:       side,
		Path:       path,
		Content:    result.Content,
		SourceURL:  url,
		StatusCode: resp.StatusCode(),
	})

	f.logger.Debug("fetched", "side", side, "path", path, "status", resp.StatusCode())
	f.events.Publish(Event{Path: path, Side: side, Outcome: OutcomeFetched})
	return result
}

// decodeBody converts a response body to UTF-8 using the charset
// declared in the Content-Type header (or sniffed from the content).
// Undecodable bodies fall back to the raw bytes so sanitization still
// operates deterministically on whatever was fetched.
func decodeBody(body []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
