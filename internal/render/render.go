// Package render writes phonemic tokens in a target script.
package render

import (
	"strings"

	"github.com/example/go-lipi/internal/script"
)

// State is the renderer's position within a syllable.
type State uint8

const (
	// AtSyllableStart: a following vowel is written as an independent letter.
	AtSyllableStart State = iota
	// AfterConsonant: a following vowel is written as a dependent sign.
	AfterConsonant
)

func (s State) String() string {
	if s == AfterConsonant {
		return "AfterConsonant"
	}
	return "AtSyllableStart"
}

// Output is the rendered text plus the number of tokens the target script
// had no glyph for.
type Output struct {
	Text    string
	Dropped int
}

// Renderer writes tokens using one target table. It holds no per-call state.
type Renderer struct {
	table *script.Table
}

// New returns a renderer for the script described by table.
func New(table *script.Table) *Renderer {
	return &Renderer{table: table}
}

// Render writes tokens in a single forward pass.
func (r *Renderer) Render(tokens []script.Token) Output {
	var (
		b       strings.Builder
		dropped int
		state   = AtSyllableStart
		abugida = r.table.Abugida()
	)

	write := func(c script.Category, name string) {
		g, ok := r.table.Glyph(c, name)
		if !ok {
			dropped++
			return
		}
		b.WriteString(g)
	}

	for i, tok := range tokens {
		switch tok.Category {
		case script.IndependentVowel:
			if state == AfterConsonant {
				write(script.VowelSign, tok.Name)
			} else {
				write(script.IndependentVowel, tok.Name)
			}
			state = AtSyllableStart

		case script.VowelSign:
			if g, ok := r.table.Glyph(script.VowelSign, tok.Name); ok && (state == AfterConsonant || g != "") {
				b.WriteString(g)
			} else {
				write(script.IndependentVowel, tok.Name)
			}
			state = AtSyllableStart

		case script.Consonant:
			write(script.Consonant, tok.Name)
			next := nextSyllableCategory(tokens[i+1:])
			if !abugida && !next.IsVowel() && next != script.Virama {
				write(script.VowelSign, script.InherentVowel)
			}
			state = AfterConsonant

		case script.Virama:
			if abugida {
				write(script.Virama, tok.Name)
			}
			state = AtSyllableStart

		case script.Nasalization, script.Punctuation:
			write(tok.Category, tok.Name)
			state = AtSyllableStart

		case script.Accent:
			write(script.Accent, tok.Name)

		case script.Whitespace, script.Unknown:
			b.WriteString(tok.Name)
			state = AtSyllableStart
		}
	}

	return Output{Text: b.String(), Dropped: dropped}
}

// nextSyllableCategory returns the category of the first non-accent token,
// or zero at end of stream.
func nextSyllableCategory(tokens []script.Token) script.Category {
	for _, tok := range tokens {
		if tok.Category != script.Accent {
			return tok.Category
		}
	}
	return 0
}
