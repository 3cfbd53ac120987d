package tokenize

import (
	"slices"
	"testing"

	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/segment"
)

func tokenizer(t *testing.T, id script.ID) *Tokenizer {
	t.Helper()
	table, err := script.Load(id)
	if err != nil {
		t.Fatalf("Load(%q): %v", id, err)
	}
	return ForTable(table)
}

func tokens(t *testing.T, id script.ID, text string) []script.Token {
	t.Helper()
	return tokenizer(t, id).Tokenize(segment.Segment(text))
}

var vir = script.Tok(script.Virama, script.ViramaName)

func c(name string) script.Token  { return script.Tok(script.Consonant, name) }
func vs(name string) script.Token { return script.Tok(script.VowelSign, name) }
func iv(name string) script.Token { return script.Tok(script.IndependentVowel, name) }
func acc(name string) script.Token { return script.Tok(script.Accent, name) }

func TestTokenize_Devanagari(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []script.Token
	}{
		{
			name:  "bare consonant is a single token",
			input: "क",
			want:  []script.Token{c("k")},
		},
		{
			name:  "consonant with virama",
			input: "क्",
			want:  []script.Token{c("k"), vir},
		},
		{
			name:  "vowel signs and conjuncts",
			input: "सरस्वती",
			want:  []script.Token{c("s"), c("r"), c("s"), vir, c("v"), c("t"), vs("ī")},
		},
		{
			name:  "independent vowel at word start",
			input: "अग्नि",
			want:  []script.Token{iv("a"), c("g"), vir, c("n"), vs("i")},
		},
		{
			name:  "independent vowel after consonant makes inherent vowel explicit",
			input: "कइ",
			want:  []script.Token{c("k"), vs("a"), iv("i")},
		},
		{
			name:  "accent stays a separate token after the vowel sign",
			input: "वा॑",
			want:  []script.Token{c("v"), vs("ā"), script.Tok(script.Accent, "svarita")},
		},
		{
			name:  "yogavaha and danda",
			input: "रामः।",
			want: []script.Token{
				c("r"), vs("ā"), c("m"),
				script.Tok(script.Nasalization, "ḥ"),
				script.Tok(script.Punctuation, "danda"),
			},
		},
		{
			name:  "whitespace and unknown pass through",
			input: "क ☃",
			want:  []script.Token{c("k"), script.Space(" "), script.Passthrough("☃")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokens(t, script.Devanagari, tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) =\n  %v\nwant\n  %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_CollapsesDoubledVowelMarks(t *testing.T) {
	tok := tokenizer(t, script.Devanagari)

	got := tok.Tokenize([]string{"क", "ि", "ी"})
	want := []script.Token{c("k"), vs("ī")}
	if !slices.Equal(got, want) {
		t.Errorf("sign+sign = %v, want %v", got, want)
	}

	got = tok.Tokenize([]string{"अ", "ा"})
	want = []script.Token{iv("ā")}
	if !slices.Equal(got, want) {
		t.Errorf("letter+sign = %v, want %v", got, want)
	}
}

func TestTokenize_KannadaDecomposedVowelSign(t *testing.T) {
	tok := tokenizer(t, script.Kannada)
	// ೀ is canonically ಿ + ೕ; both spellings must read as ī.
	composed := tok.Tokenize([]string{"ಕ", "ೀ"})
	decomposed := tok.Tokenize([]string{"ಕ", "ಿ", "ೕ"})
	want := []script.Token{c("k"), vs("ī")}
	if !slices.Equal(composed, want) {
		t.Errorf("composed = %v, want %v", composed, want)
	}
	if !slices.Equal(decomposed, want) {
		t.Errorf("decomposed = %v, want %v", decomposed, want)
	}
}

func TestTokenize_Romanized(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []script.Token
	}{
		{
			name:  "explicit vowels",
			input: "ka",
			want:  []script.Token{c("k"), iv("a")},
		},
		{
			name:  "final consonant is dead",
			input: "vāk",
			want:  []script.Token{c("v"), iv("ā"), c("k"), vir},
		},
		{
			name:  "cluster gets virama between consonants",
			input: "kṣa",
			want:  []script.Token{c("k"), vir, c("ṣ"), iv("a")},
		},
		{
			name:  "aspirates and diphthongs use longest match",
			input: "khai",
			want:  []script.Token{c("kh"), iv("ai")},
		},
		{
			name:  "decomposed macron is reassembled",
			input: "ma\u0304",
			want:  []script.Token{c("m"), iv("ā")},
		},
		{
			name:  "vocalic r",
			input: "kr̥",
			want:  []script.Token{c("k"), iv("r̥")},
		},
		{
			name:  "consonant before whitespace is dead",
			input: "ak ka",
			want:  []script.Token{iv("a"), c("k"), vir, script.Space(" "), c("k"), iv("a")},
		},
		{
			name:  "anusvara after vowel",
			input: "aṁ",
			want:  []script.Token{iv("a"), script.Tok(script.Nasalization, "ṁ")},
		},
		{
			name:  "precomposed and decomposed diacritics agree",
			input: "ṭāt\u0323a\u0304",
			want:  []script.Token{c("ṭ"), iv("ā"), c("ṭ"), iv("ā")},
		},
		{
			name:  "accent after consonant keeps the syllable open",
			input: "k\u030Da",
			want:  []script.Token{c("k"), acc("svarita"), iv("a")},
		},
		{
			name:  "accent between cluster consonants",
			input: "k\u030Dta",
			want:  []script.Token{c("k"), vir, acc("svarita"), c("t"), iv("a")},
		},
		{
			name:  "unknown precomposed letter passes through whole",
			input: "kü",
			want:  []script.Token{c("k"), vir, script.Passthrough("ü")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokens(t, script.IASTISO, tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) =\n  %v\nwant\n  %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	if got := tokens(t, script.IASTISO, ""); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", got)
	}
}
