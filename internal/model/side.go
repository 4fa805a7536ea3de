package model

import "fmt"

// Side identifies one of the two compared deployments.
// It is used as a cache-key dimension and as a label in reports; the
// pipeline never branches on it beyond key and base-URL selection.
type Side string

const (
	// SideBefore is the deployment being migrated away from.
	SideBefore Side = "before"

	// SideAfter is the deployment being migrated to.
	SideAfter Side = "after"
)

// Sides returns both sides in comparison order.
func Sides() []Side {
	return []Side{SideBefore, SideAfter}
}

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBefore || s == SideAfter
}

// String returns the side label.
func (s Side) String() string {
	return string(s)
}

// ParseSide converts a string into a Side.
// It returns an error for anything other than "before" or "after".
func ParseSide(s string) (Side, error) {
	side := Side(s)
	if !side.Valid() {
		return "", fmt.Errorf("unknown side %q (must be %q or %q)", s, SideBefore, SideAfter)
	}
	return side, nil
}
