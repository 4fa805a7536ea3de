package model

import "strings"

// NormalizePath canonicalizes a site-relative path so that variants of the
// same page share one identity across the cache, fetch, diff, and report
// stages. The rules are:
//   - surrounding whitespace is trimmed
//   - a missing leading slash is added
//   - a trailing slash is dropped, except for the root path "/"
//   - an empty path becomes "/"
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

// NormalizePaths normalizes every path in the input and removes duplicates
// while preserving the first-seen order. The input slice is not modified.
func NormalizePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		n := NormalizePath(p)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// PathSlug derives a filesystem-safe name from a path for per-path diff
// artifacts. The root path maps to "index"; every other path maps to its
// segments joined with dashes, with non-alphanumeric runes folded to dashes.
func PathSlug(p string) string {
	p = NormalizePath(p)
	if p == "/" {
		return "index"
	}

	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.TrimPrefix(p, "/") {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "index"
	}
	return slug
}
