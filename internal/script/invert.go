package script

import (
	"maps"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Collision records a glyph declared for more than one phoneme in the same
// category. Kept is the phoneme the read view resolves the glyph to.
type Collision struct {
	Category Category
	Glyph    string
	Kept     string
	Dropped  string
}

// ReadView maps glyphs back to phonemes, per category.
type ReadView struct {
	groups     map[Category]map[string]string
	collisions []Collision
	maxUnits   int
}

// Invert builds the read view of t.
//
// Categories are processed in Precedence order and, within a category,
// phonemes in ascending byte order of their names. When a glyph repeats the
// later phoneme wins and the overwritten one is recorded as a Collision.
// Glyph keys are NFC-normalized; empty glyphs are not readable.
func (t *Table) Invert() *ReadView {
	rv := &ReadView{groups: make(map[Category]map[string]string, len(Precedence))}
	for _, c := range Precedence {
		group, ok := t.groups[c]
		if !ok {
			continue
		}
		inv := make(map[string]string, len(group))
		for _, name := range slices.Sorted(maps.Keys(group)) {
			if group[name] == "" {
				continue
			}
			glyph := norm.NFC.String(group[name])
			if prev, dup := inv[glyph]; dup {
				rv.collisions = append(rv.collisions, Collision{Category: c, Glyph: glyph, Kept: name, Dropped: prev})
			}
			inv[glyph] = name
			if n := utf8.RuneCountInString(norm.NFD.String(glyph)); n > rv.maxUnits {
				rv.maxUnits = n
			}
		}
		rv.groups[c] = inv
	}
	return rv
}

// Lookup resolves an NFC-normalized glyph to a token, searching categories
// in Precedence order.
func (r *ReadView) Lookup(glyph string) (Token, bool) {
	for _, c := range Precedence {
		if name, ok := r.groups[c][glyph]; ok {
			return Tok(c, name), true
		}
	}
	return Token{}, false
}

// MaxUnits is the longest readable glyph measured in decomposed codepoints,
// i.e. the widest window a tokenizer has to try.
func (r *ReadView) MaxUnits() int {
	if r.maxUnits == 0 {
		return 1
	}
	return r.maxUnits
}

// Collisions returns the same-category glyph collisions found while inverting.
func (r *ReadView) Collisions() []Collision {
	return slices.Clone(r.collisions)
}

// Invert turns the read view back into per-category name → glyph pairs.
// Every returned pair was declared in the original table.
func (r *ReadView) Invert() map[Category]map[string]string {
	out := make(map[Category]map[string]string, len(r.groups))
	for c, group := range r.groups {
		fwd := make(map[string]string, len(group))
		for glyph, name := range group {
			fwd[name] = glyph
		}
		out[c] = fwd
	}
	return out
}
