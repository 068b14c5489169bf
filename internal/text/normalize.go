// Package text provides the normalization step shared by entity extraction
// and lexical similarity scoring.
package text

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the input, replaces punctuation with spaces and
// collapses whitespace runs into single spaces. The result is trimmed.
// Word-boundary matching downstream relies on this shape.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctuation.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fields normalizes the input and splits it into tokens.
func Fields(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
