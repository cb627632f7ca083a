package domain

import (
	"strings"
	"unicode"
)

// CleanText replaces exotic whitespace (NBSP and friends) with plain spaces,
// drops control characters and collapses runs of spaces.
func CleanText(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			result = append(result, ' ')
		case unicode.IsControl(r):
			// dropped
		default:
			result = append(result, r)
		}
	}
	return strings.Join(strings.Fields(string(result)), " ")
}
