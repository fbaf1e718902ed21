package predicate

import (
	"fmt"
	"strings"
)

// EscapeLike escapes characters meaningful to LIKE patterns so they
// match literally. Backslash first, then % and _.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// Contains builds a case-insensitive substring condition on a column
// expression. The needle is escaped so LIKE wildcards match literally;
// ESCAPE is always included so the escaping holds.
func Contains(expr, needle string) Node {
	pattern := "%" + EscapeLike(needle) + "%"
	return NewLeaf(fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, expr), pattern)
}
