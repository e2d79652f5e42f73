package kbase

import (
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// TokenSet is a set of lexical tokens.
type TokenSet map[string]struct{}

// Tokenize returns the set of lower-cased alphanumeric tokens in text.
// Punctuation separates tokens: "charge-off" yields "charge" and "off".
func Tokenize(text string) TokenSet {
	matches := Words(text)
	set := make(TokenSet, len(matches))
	for _, m := range matches {
		set[m] = struct{}{}
	}
	return set
}

// Words returns the lower-cased alphanumeric tokens of text in order,
// duplicates included.
func Words(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Has reports whether the set contains token.
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Intersect returns the number of tokens present in both sets.
func (s TokenSet) Intersect(other TokenSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for tok := range small {
		if large.Has(tok) {
			n++
		}
	}
	return n
}
