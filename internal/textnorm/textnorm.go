// Package textnorm provides the text normalization primitives used by every
// matching stage: diacritic stripping, alphabet classification, and word-set
// tokenization.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining marks, so "Amélie"
// compares equal to "Amelie".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var wordRegex = regexp.MustCompile(`[a-z0-9]+`)

// Normalize strips diacritics and lowercases text for comparison.
func Normalize(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(out)
}

// IsLatin reports whether text uses the Latin alphabet. Any character in the
// Hebrew, Arabic, Cyrillic, or CJK blocks makes the whole string non-Latin.
// Empty text is non-Latin.
func IsLatin(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		switch {
		case r >= 0x0590 && r <= 0x05FF: // Hebrew
			return false
		case r >= 0x0600 && r <= 0x06FF: // Arabic
			return false
		case r >= 0x0400 && r <= 0x04FF: // Cyrillic
			return false
		case r >= 0x4E00 && r <= 0x9FFF: // CJK
			return false
		}
	}
	return true
}

// WordSet is a set of normalized alphanumeric tokens extracted from a title.
type WordSet map[string]struct{}

// Tokenize normalizes text and extracts all maximal alphanumeric runs as a
// set. Duplicates collapse; order is irrelevant.
func Tokenize(text string) WordSet {
	words := wordRegex.FindAllString(Normalize(text), -1)
	set := make(WordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given token.
func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// SubsetOf reports whether every token in s appears in other.
func (s WordSet) SubsetOf(other WordSet) bool {
	for w := range s {
		if _, ok := other[w]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of distinct tokens in the set.
func (s WordSet) Len() int {
	return len(s)
}
