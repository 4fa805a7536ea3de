package cache

import (
	"fmt"

	"github.com/nao1215/sitediff/internal/model"
)

// Tags selects which sides participate in a cache operation.
// Reads and writes carry independent Tags values, fixed once per run.
type Tags struct {
	// Before enables the operation for the "before" side.
	Before bool

	// After enables the operation for the "after" side.
	After bool
}

// Tag selector values accepted by ParseTags.
const (
	TagsNone   = "none"
	TagsAll    = "all"
	TagsBefore = "before"
	TagsAfter  = "after"
)

// ParseTags converts a selector string into a Tags value.
// Valid selectors are "none", "all", "before", and "after".
func ParseTags(s string) (Tags, error) {
	switch s {
	case TagsNone:
		return Tags{}, nil
	case TagsAll:
		return Tags{Before: true, After: true}, nil
	case TagsBefore:
		return Tags{Before: true}, nil
	case TagsAfter:
		return Tags{After: true}, nil
	default:
		return Tags{}, fmt.Errorf("unknown cache tag selector %q (must be none, all, before, or after)", s)
	}
}

// Includes reports whether the given side participates.
func (t Tags) Includes(side model.Side) bool {
	switch side {
	case model.SideBefore:
		return t.Before
	case model.SideAfter:
		return t.After
	default:
		return false
	}
}

// String returns the selector form of the Tags value.
func (t Tags) String() string {
	switch {
	case t.Before && t.After:
		return TagsAll
	case t.Before:
		return TagsBefore
	case t.After:
		return TagsAfter
	default:
		return TagsNone
	}
}
