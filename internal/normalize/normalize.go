// Package normalize canonicalizes company names for index keys and query
// comparison. Indexed names and query text must go through the same
// transform or exact-match detection breaks.
package normalize

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, strips everything that is not a word character or
// whitespace, and collapses whitespace runs to single spaces. Idempotent.
func Normalize(text string) string {
	s := nonWord.ReplaceAllString(strings.ToLower(text), "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits an already-normalized string and keeps only words longer
// than two characters. Short tokens ("of", "uk") are too common to index.
func Tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// WordSet returns the distinct words of an already-normalized string.
func WordSet(normalized string) map[string]bool {
	fields := strings.Fields(normalized)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
