package script

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/unicode/norm"
)

const (
	// InherentVowel is the phoneme every bare abugida consonant carries.
	InherentVowel = "a"
	// ViramaName is the phoneme name of the vowel-suppressing mark.
	ViramaName = "virama"
)

// Table is the immutable write view of one script: per category, phoneme
// name → glyph.
type Table struct {
	id     ID
	groups map[Category]map[string]string
	read   func() *ReadView
}

// Parse decodes a TOML script table for id.
//
// Every top-level entry must be a known category section whose values are
// strings. vowels and consonants are required, and abugida scripts also need
// a virama. A missing vowel_marks section is copied from vowels.
func Parse(id ID, data []byte) (*Table, error) {
	name := string(id)
	if !id.Valid() {
		return nil, &ConfigError{Script: name, Err: ErrUnknownScript}
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Script: name, Err: fmt.Errorf("decode table: %w", err)}
	}

	bySection := make(map[string]Category, len(sections))
	for c, s := range sections {
		bySection[s] = c
	}

	t := &Table{id: id, groups: make(map[Category]map[string]string, len(sections))}
	for _, section := range slices.Sorted(maps.Keys(doc)) {
		c, ok := bySection[section]
		if !ok {
			return nil, configErrorf(name, "unknown section %q", section)
		}
		entries, ok := doc[section].(map[string]any)
		if !ok {
			return nil, configErrorf(name, "section %q: want table, got %T", section, doc[section])
		}

		group := make(map[string]string, len(entries))
		for _, key := range slices.Sorted(maps.Keys(entries)) {
			glyph, ok := entries[key].(string)
			if !ok {
				return nil, configErrorf(name, "%s.%s: want string, got %T", section, key, entries[key])
			}
			phoneme := norm.NFC.String(key)
			if _, dup := group[phoneme]; dup {
				return nil, configErrorf(name, "%s: duplicate phoneme %q", section, phoneme)
			}
			group[phoneme] = glyph
		}
		t.groups[c] = group
	}

	required := []Category{IndependentVowel, Consonant}
	if id.IsAbugida() {
		required = append(required, Virama)
	}
	for _, c := range required {
		if _, ok := t.groups[c]; !ok {
			return nil, configErrorf(name, "missing section %q", c.Section())
		}
	}

	if id.IsAbugida() {
		if _, ok := t.groups[Virama][ViramaName]; !ok {
			return nil, configErrorf(name, "virama: missing %q entry", ViramaName)
		}
	}

	if _, ok := t.groups[VowelSign]; !ok {
		t.groups[VowelSign] = maps.Clone(t.groups[IndependentVowel])
	}

	t.read = sync.OnceValue(t.Invert)
	return t, nil
}

// ID returns the script this table describes.
func (t *Table) ID() ID { return t.id }

// Abugida reports whether the table's script has an inherent vowel.
func (t *Table) Abugida() bool { return t.id.IsAbugida() }

// Glyph returns the glyph written for phoneme name in category c.
// The inherent vowel sign is the empty string when the table omits it.
func (t *Table) Glyph(c Category, name string) (string, bool) {
	g, ok := t.groups[c][name]
	if !ok && c == VowelSign && name == InherentVowel {
		return "", true
	}
	return g, ok
}

// Names returns the phoneme names declared for c in ascending order.
func (t *Table) Names(c Category) []string {
	return slices.Sorted(maps.Keys(t.groups[c]))
}

// Pairs returns a copy of the name → glyph entries declared for c.
func (t *Table) Pairs(c Category) map[string]string {
	return maps.Clone(t.groups[c])
}

// ReadView returns the cached inverse of the table.
func (t *Table) ReadView() *ReadView {
	return t.read()
}
