package sanitize

import (
	"fmt"
	"regexp"

	"github.com/andybalholm/cascadia"
)

// Kind enumerates the closed set of transformation kinds.
// Rules are tagged variants over this set and applied via exhaustive
// switch; there is no open-ended dynamic rule lookup.
type Kind string

const (
	// KindRegexp replaces every match of a regular expression in the
	// document text with a replacement string (empty replacement strips).
	KindRegexp Kind = "regexp"

	// KindRemove removes every element matching a CSS selector.
	KindRemove Kind = "remove"

	// KindStripAttrs removes the named attributes from matching elements
	// (all elements when no selector is given).
	KindStripAttrs Kind = "strip_attrs"

	// KindWhitespace trims lines, collapses internal whitespace runs to a
	// single space, and drops blank lines.
	KindWhitespace Kind = "whitespace"
)

// RuleConfig is the declared form of one sanitization rule, as it
// appears in the configuration file. Which fields are meaningful depends
// on Kind.
type RuleConfig struct {
	// Kind selects the transformation.
	Kind Kind `yaml:"kind"`

	// Name is an optional label used in error messages.
	Name string `yaml:"name,omitempty"`

	// Pattern is the regular expression for KindRegexp.
	Pattern string `yaml:"pattern,omitempty"`

	// Replace is the replacement text for KindRegexp. Empty strips.
	Replace string `yaml:"replace,omitempty"`

	// Selector is the CSS selector for KindRemove, and optionally limits
	// KindStripAttrs to matching elements.
	Selector string `yaml:"selector,omitempty"`

	// Attrs lists the attribute names removed by KindStripAttrs.
	Attrs []string `yaml:"attrs,omitempty"`
}

// label returns the rule's name for error messages, falling back to its
// position in the rule set.
func (c RuleConfig) label(index int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("rule %d (%s)", index+1, c.Kind)
}

// rule is a compiled sanitization rule.
type rule struct {
	cfg RuleConfig
	re  *regexp.Regexp
	sel cascadia.Selector
}

// RuleSet is an ordered, compiled sequence of rules. Rules apply in
// declared order; order affects output and is preserved exactly.
type RuleSet struct {
	rules []rule
}

// Compile validates and compiles a declared rule sequence.
// A malformed rule (unknown kind, bad regexp, bad selector, missing
// required field) fails here, at configuration time, never mid-run.
func Compile(cfgs []RuleConfig) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]rule, 0, len(cfgs))}

	for i, cfg := range cfgs {
		r := rule{cfg: cfg}

		switch cfg.Kind {
		case KindRegexp:
			if cfg.Pattern == "" {
				return nil, fmt.Errorf("%s: pattern is required", cfg.label(i))
			}
			re, err := regexp.Compile(cfg.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid pattern: %w", cfg.label(i), err)
			}
			r.re = re

		case KindRemove:
			if cfg.Selector == "" {
				return nil, fmt.Errorf("%s: selector is required", cfg.label(i))
			}
			sel, err := cascadia.Compile(cfg.Selector)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid selector: %w", cfg.label(i), err)
			}
			r.sel = sel

		case KindStripAttrs:
			if len(cfg.Attrs) == 0 {
				return nil, fmt.Errorf("%s: attrs is required", cfg.label(i))
			}
			selector := cfg.Selector
			if selector == "" {
				selector = "*"
			}
			sel, err := cascadia.Compile(selector)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid selector: %w", cfg.label(i), err)
			}
			r.sel = sel

		case KindWhitespace:
			// No parameters.

		default:
			return nil, fmt.Errorf("%s: unknown rule kind %q", cfg.label(i), cfg.Kind)
		}

		rs.rules = append(rs.rules, r)
	}

	return rs, nil
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}
