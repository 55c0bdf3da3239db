package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the matching form of a material name or rule term:
// - NFKC folded, so full-width and compatibility forms compare equal
// - lowercased
// - all whitespace removed, including inner spaces
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// KeywordMatch reports whether keyword matches the normalized text.
// Empty keywords never match. A single-character keyword must equal the
// whole text, otherwise it would match almost every name.
func KeywordMatch(normalizedText, keyword string) bool {
	return keyMatch(normalizedText, Normalize(keyword))
}

func keyMatch(normalizedText, key string) bool {
	if key == "" {
		return false
	}
	if utf8.RuneCountInString(key) == 1 {
		return normalizedText == key
	}
	return strings.Contains(normalizedText, key)
}
