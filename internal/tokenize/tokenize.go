// Package tokenize turns segmented script units into phonemic tokens.
package tokenize

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/go-lipi/internal/script"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer reads units of one source script. It holds no per-call state and
// may be shared between goroutines.
type Tokenizer struct {
	read    *script.ReadView
	abugida bool
}

// New returns a tokenizer over a source script's read view.
func New(read *script.ReadView, abugida bool) *Tokenizer {
	return &Tokenizer{read: read, abugida: abugida}
}

// ForTable returns a tokenizer reading the script described by t.
func ForTable(t *script.Table) *Tokenizer {
	return New(t.ReadView(), t.Abugida())
}

// Tokenize converts units into tokens in a single pass.
//
// The stream it returns has the same shape for every source: a bare
// consonant carries the inherent vowel, a consonant followed by a Virama
// token carries none, and any other vowel follows its consonant explicitly.
// Units no category recognises become Whitespace or Unknown tokens holding
// the unit verbatim.
func (t *Tokenizer) Tokenize(units []string) []script.Token {
	out := make([]script.Token, 0, len(units))
	for i := 0; i < len(units); {
		tok, n := t.match(units[i:])
		out = t.push(out, tok)
		i += n
	}
	if !t.abugida {
		out = closeDeadConsonant(out)
	}
	return out
}

// match finds the longest run of units, up to the widest glyph in the read
// view, that spells a known glyph.
func (t *Tokenizer) match(units []string) (script.Token, int) {
	for n := min(t.read.MaxUnits(), len(units)); n > 0; n-- {
		glyph := norm.NFC.String(strings.Join(units[:n], ""))
		if tok, ok := t.read.Lookup(glyph); ok {
			return tok, n
		}
	}

	unit := units[0]
	if r, _ := utf8.DecodeRuneInString(unit); unicode.IsSpace(r) {
		return script.Space(unit), 1
	}
	return script.Passthrough(unit), 1
}

func (t *Tokenizer) push(out []script.Token, tok script.Token) []script.Token {
	if tok.Category == script.VowelSign && len(out) > 0 && out[len(out)-1].Category.IsVowel() {
		// Vowel length spelled with two adjacent marks: the last one counts.
		prev := out[len(out)-1]
		if prev.Category == script.IndependentVowel {
			tok.Category = script.IndependentVowel
		}
		out[len(out)-1] = tok
		return out
	}

	head := syllableHead(out)
	if head < 0 || out[head].Category != script.Consonant {
		return append(out, tok)
	}

	switch {
	case t.abugida && tok.Category == script.IndependentVowel:
		// A vowel letter right after a consonant starts a new syllable, so
		// the consonant keeps its inherent vowel.
		out = slices.Insert(out, head+1, script.Tok(script.VowelSign, script.InherentVowel))
	case !t.abugida && !tok.Category.IsVowel() && tok.Category != script.Virama && tok.Category != script.Accent:
		out = slices.Insert(out, head+1, script.Tok(script.Virama, script.ViramaName))
	}
	return append(out, tok)
}

// closeDeadConsonant marks a trailing romanized consonant as vowelless.
func closeDeadConsonant(out []script.Token) []script.Token {
	head := syllableHead(out)
	if head >= 0 && out[head].Category == script.Consonant {
		out = slices.Insert(out, head+1, script.Tok(script.Virama, script.ViramaName))
	}
	return out
}

// syllableHead returns the index of the last token that is not an accent,
// or -1. Accents annotate a syllable without changing its shape.
func syllableHead(out []script.Token) int {
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Category != script.Accent {
			return i
		}
	}
	return -1
}
