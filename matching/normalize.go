package matching

import "strings"

// Normalize prepares a string for matching: trim, lowercase, collapse
// internal whitespace runs to single spaces. Returns "" for empty input
// and never fails.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
