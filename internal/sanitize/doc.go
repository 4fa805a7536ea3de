// Package sanitize normalizes fetched markup before comparison.
//
// A RuleSet is an ordered sequence of transformations over a closed set
// of kinds: regular-expression replacement, element removal by CSS
// selector, attribute stripping, and whitespace collapsing. Rules are
// compiled and validated up front so a malformed rule fails at
// configuration time, and applied in declared order so the output of a
// rule set is fully determined by its declaration.
//
// DOM transformations use goquery over golang.org/x/net/html, which is
// error-tolerant: documents that cannot be parsed structurally simply
// skip DOM rules while text rules continue to apply.
package sanitize
