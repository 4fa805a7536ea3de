package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Apply runs the rule set over raw markup and returns the sanitized
// document. Rules execute strictly in declared order: a whitespace rule
// declared after an element removal sees the document without the
// removed elements, and vice versa.
//
// Apply is pure and deterministic: no I/O, and the same input with the
// same rule set always yields the same output. Malformed markup never
// raises; when structural parsing fails, DOM-based rules degrade to
// no-ops and the remaining text rules still apply to the raw content.
func (rs *RuleSet) Apply(raw string) string {
	if rs == nil {
		return raw
	}

	doc := raw
	for _, r := range rs.rules {
		switch r.cfg.Kind {
		case KindRegexp:
			doc = r.re.ReplaceAllString(doc, r.cfg.Replace)

		case KindRemove:
			doc = applyDOM(doc, func(d *goquery.Document) {
				d.FindMatcher(r.sel).Remove()
			})

		case KindStripAttrs:
			doc = applyDOM(doc, func(d *goquery.Document) {
				d.FindMatcher(r.sel).Each(func(_ int, sel *goquery.Selection) {
					for _, attr := range r.cfg.Attrs {
						sel.RemoveAttr(attr)
					}
				})
			})

		case KindWhitespace:
			doc = CollapseWhitespace(doc)
		}
	}

	return doc
}

// applyDOM parses doc, mutates it through fn, and re-serializes it.
// When the document cannot be parsed or serialized the input is returned
// unchanged, so later text-based rules still run.
func applyDOM(doc string, fn func(*goquery.Document)) string {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return doc
	}

	fn(parsed)

	out, err := parsed.Html()
	if err != nil {
		return doc
	}
	return out
}

// CollapseWhitespace normalizes whitespace line by line: each line is
// trimmed, internal whitespace runs collapse to a single space, and
// blank lines are dropped. Idempotent.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	first := true
	for _, line := range strings.Split(s, "\n") {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed == "" {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(collapsed)
		first = false
	}

	return b.String()
}
