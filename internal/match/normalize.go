package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenLen is the minimum rune length for a token to survive filtering.
const minTokenLen = 2

// Normalize canonicalizes free-text input for locale-tolerant matching:
// trims surrounding whitespace, lowercases, strips diacritics via NFKD
// decomposition, and collapses whitespace runs to single spaces.
// It is total (empty in, empty out) and idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	// Decompose so combining marks become separate runes, then drop them.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	return strings.Join(strings.Fields(s), " ")
}

// Tokenize normalizes the query and splits it on spaces, keeping tokens of at
// least minTokenLen runes. When no token survives filtering the whole
// normalized query is used as a single token, so even degenerate input yields
// at least one search term. Token order follows the input and is
// deterministic.
func Tokenize(query string) []string {
	qn := Normalize(query)

	var tokens []string
	for _, t := range strings.Split(qn, " ") {
		if utf8.RuneCountInString(t) >= minTokenLen {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		tokens = []string{qn}
	}
	return tokens
}
