package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nao1215/sitediff/internal/model"
)

// Default crawl limits. Discovery runs against a live site, so both the
// page budget and the politeness delay are bounded by default.
const (
	DefaultMaxDepth = 3
	DefaultMaxPages = 100
	DefaultDelay    = 200 * time.Millisecond
)

// Spider discovers the paths of a site by breadth-first crawling from
// its root, staying on the same host. It is used by the init command to
// seed a configuration with the site's actual pages.
type Spider struct {
	client   *resty.Client
	maxDepth int
	maxPages int
	delay    time.Duration
	logger   *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth limits how many link levels to follow from the root.
// Depth 0 means only the root page.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		if depth >= 0 {
			s.maxDepth = depth
		}
	}
}

// WithMaxPages limits the total number of pages fetched.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		if maxPages > 0 {
			s.maxPages = maxPages
		}
	}
}

// WithDelay sets the politeness delay between requests.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider with the given HTTP client.
// The client carries timeout and header configuration so discovery
// behaves like the fetcher it feeds.
func NewSpider(client *resty.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:   client,
		maxDepth: DefaultMaxDepth,
		maxPages: DefaultMaxPages,
		delay:    DefaultDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// queueItem is one pending page in the crawl queue.
type queueItem struct {
	path  string
	depth int
}

// Discover crawls the site at baseURL and returns the normalized paths
// found, in discovery order starting with "/". Pages that fail to fetch
// are skipped; discovery is best-effort. The returned paths contain no
// duplicates.
func (s *Spider) Discover(ctx context.Context, baseURL string) ([]string, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https: %s", baseURL)
	}

	visited := make(map[string]bool)
	var discovered []string
	queue := []queueItem{{path: "/", depth: 0}}

	for len(queue) > 0 && len(discovered) < s.maxPages {
		select {
		case <-ctx.Done():
			return discovered, ctx.Err()
		default:
		}

		item := queue[0]
		queue = queue[1:]

		path := model.NormalizePath(item.path)
		if visited[path] {
			continue
		}
		visited[path] = true

		links, err := s.fetchLinks(ctx, base, path)
		if err != nil {
			s.logger.Debug("skipping page during discovery", "path", path, "error", err)
			continue
		}

		discovered = append(discovered, path)

		if item.depth < s.maxDepth {
			for _, link := range links {
				if !visited[model.NormalizePath(link)] {
					queue = append(queue, queueItem{path: link, depth: item.depth + 1})
				}
			}
		}

		if s.delay > 0 && len(queue) > 0 {
			select {
			case <-ctx.Done():
				return discovered, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return discovered, nil
}

// fetchLinks fetches one page and returns its same-host link paths.
func (s *Spider) fetchLinks(ctx context.Context, base *url.URL, path string) ([]string, error) {
	pageURL := *base
	pageURL.Path = path

	resp, err := s.client.R().SetContext(ctx).Get(pageURL.String())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	if !strings.Contains(resp.Header().Get("Content-Type"), "text/html") {
		return nil, nil
	}

	return extractPaths(&pageURL, strings.NewReader(string(resp.Body())))
}
