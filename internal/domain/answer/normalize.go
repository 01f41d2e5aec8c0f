package answer

import (
	"strings"
	"unicode/utf8"
)

// Normalize prepares an answer for comparison: it trims the ends, collapses
// whitespace runs into a single space and lowercases Latin letters.
// Hangul has no case, so Korean text only has its spacing normalized.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
