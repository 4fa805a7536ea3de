// Package crawl discovers a site's paths by same-host breadth-first
// crawling. It backs the init command's --crawl mode; the comparison
// pipeline itself never crawls.
package crawl
