package services

import (
	"strings"
	"unicode/utf8"
)

// Normalizer bounds extracted résumé text to what the model can take in.
type Normalizer struct {
	maxChars int
}

func NewNormalizer(maxChars int) *Normalizer {
	return &Normalizer{maxChars: maxChars}
}

func (n *Normalizer) MaxChars() int {
	return n.maxChars
}

// Normalize collapses whitespace, then cuts the result to at most maxChars
// characters. The cut ignores word boundaries.
func (n *Normalizer) Normalize(text string) string {
	return truncateRunes(NormalizeWhitespace(text), n.maxChars)
}

// NormalizeWhitespace replaces every run of whitespace with a single space
// and trims both ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
