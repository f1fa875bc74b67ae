package mapping

import (
	"strings"
	"unicode"
)

// Normalize cleans a raw spreadsheet header for matching: lower-case, keep
// only letters and digits, drop everything else (spaces, underscores,
// punctuation). "Part No." becomes "partno". Normalize is idempotent and
// pure.
func Normalize(header string) string {
	var b strings.Builder
	b.Grow(len(header))
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits a header into normalized word tokens. Runs of letters/digits
// are tokens; every separator (whitespace, underscore, punctuation) is a
// boundary. "Annual_Purchase Value" -> ["annual", "purchase", "value"].
func Tokens(header string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
