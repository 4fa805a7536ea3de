package crawl

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// extractPaths parses HTML content and returns the site-relative paths
// of every same-host anchor, in document order. Relative hrefs resolve
// against pageURL; fragments, mailto links, and off-host links are
// skipped.
//
// golang.org/x/net/html handles the malformed markup common on real
// sites, which keeps discovery working on pages a strict parser would
// reject.
func extractPaths(pageURL *url.URL, content io.Reader) ([]string, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	var paths []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if path, ok := anchorPath(pageURL, n); ok {
				paths = append(paths, path)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return paths, nil
}

// anchorPath resolves one anchor's href and returns its path when it
// stays on the same host.
func anchorPath(pageURL *url.URL, n *html.Node) (string, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}

	resolved, err := pageURL.Parse(href)
	if err != nil {
		return "", false
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(resolved.Host, pageURL.Host) {
		return "", false
	}

	path := resolved.Path
	if path == "" {
		path = "/"
	}
	return path, true
}
