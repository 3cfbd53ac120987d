// Package segment splits input text into the units a tokenizer consumes.
package segment

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Segment splits text into single-codepoint units as written.
//
// Vowel signs and virama stay separable from their base consonant, and a
// decomposed letter keeps its combining marks as separate units; the
// tokenizer's table lookup composes them again. Nothing is normalized here,
// so a unit no table knows survives byte for byte. Invalid UTF-8 bytes
// become one-byte units.
func Segment(text string) []string {
	units := make([]string, 0, utf8.RuneCountInString(text))
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		units = append(units, text[i:i+size])
		i += size
	}
	return units
}

// Graphemes splits text into extended grapheme clusters, which for Brahmic
// scripts roughly correspond to written syllables.
func Graphemes(text string) []string {
	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	return clusters
}
