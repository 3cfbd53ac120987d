package script

import "fmt"

// Category is the phoneme class a token or table entry belongs to.
// The set is closed; dispatchers switch over every value.
type Category uint8

const (
	IndependentVowel Category = iota + 1
	VowelSign
	Consonant
	Nasalization
	Virama
	Accent
	Punctuation
	Whitespace
	// Unknown marks passthrough tokens for units no table recognises.
	// It never appears in a table.
	Unknown
)

// Precedence is the order in which categories are searched when a glyph is
// read. Earlier categories win when a script reuses a glyph across categories.
var Precedence = []Category{
	IndependentVowel,
	VowelSign,
	Consonant,
	Nasalization,
	Virama,
	Accent,
	Punctuation,
}

// sections maps table categories to their TOML section names.
var sections = map[Category]string{
	IndependentVowel: "vowels",
	VowelSign:        "vowel_marks",
	Consonant:        "consonants",
	Nasalization:     "yogavaahas",
	Virama:           "virama",
	Accent:           "accents",
	Punctuation:      "symbols",
}

func (c Category) String() string {
	switch c {
	case IndependentVowel:
		return "IndependentVowel"
	case VowelSign:
		return "VowelSign"
	case Consonant:
		return "Consonant"
	case Nasalization:
		return "Nasalization"
	case Virama:
		return "Virama"
	case Accent:
		return "Accent"
	case Punctuation:
		return "Punctuation"
	case Whitespace:
		return "Whitespace"
	case Unknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// Section returns the TOML section name used for c in script tables, or ""
// for categories that are not table-backed.
func (c Category) Section() string {
	return sections[c]
}

// IsVowel reports whether c is an independent vowel or a vowel sign.
func (c Category) IsVowel() bool {
	return c == IndependentVowel || c == VowelSign
}

// Token is one script-independent phonemic unit.
//
// For phoneme categories Name is the canonical phoneme name ("k", "ā",
// "virama"). Whitespace and Unknown tokens carry the verbatim input unit in
// Name instead.
type Token struct {
	Category Category
	Name     string
}

// Tok builds a phoneme token.
func Tok(c Category, name string) Token {
	return Token{Category: c, Name: name}
}

// Passthrough builds an Unknown token carrying text verbatim.
func Passthrough(text string) Token {
	return Token{Category: Unknown, Name: text}
}

// Space builds a Whitespace token carrying text verbatim.
func Space(text string) Token {
	return Token{Category: Whitespace, Name: text}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Category, t.Name)
}
