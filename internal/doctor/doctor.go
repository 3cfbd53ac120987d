// Package doctor provides preflight checks for lipi's script tables.
package doctor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-lipi/internal/render"
	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/translit"
	"github.com/samber/lo"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds the inputs for each doctor check.
type Config struct {
	// Registry supplies the tables under test. Nil means the embedded set.
	Registry *script.Registry
	// Scripts limits the checks to these scripts. Empty means all.
	Scripts []script.ID
	// TableDir is verified to be a readable directory when set.
	TableDir string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	reg := cfg.Registry
	if reg == nil {
		reg = script.Default()
	}
	ids := cfg.Scripts
	if len(ids) == 0 {
		ids = script.IDs()
	}

	// ---- table directory --------------------------------------------------
	if cfg.TableDir != "" {
		if fi, err := os.Stat(cfg.TableDir); err != nil {
			res.fail(fmt.Sprintf("table dir %q: %v", cfg.TableDir, err))
			fmt.Fprintf(w, "%s table dir %s: not found\n", FailMark, cfg.TableDir)
		} else if !fi.IsDir() {
			res.fail(fmt.Sprintf("table dir %q: not a directory", cfg.TableDir))
			fmt.Fprintf(w, "%s table dir %s: not a directory\n", FailMark, cfg.TableDir)
		} else {
			fmt.Fprintf(w, "%s table dir: %s\n", PassMark, cfg.TableDir)
		}
	}

	// ---- tables -----------------------------------------------------------
	tables := make(map[script.ID]*script.Table, len(ids))
	for _, id := range ids {
		t, err := reg.Load(id)
		if err != nil {
			res.fail(fmt.Sprintf("table %s: %v", id, err))
			fmt.Fprintf(w, "%s table %s: %v\n", FailMark, id, err)
			continue
		}
		tables[id] = t
		fmt.Fprintf(w, "%s table %s: %d vowels, %d consonants\n", PassMark, id,
			len(t.Names(script.IndependentVowel)), len(t.Names(script.Consonant)))
	}

	// ---- inversion collisions ---------------------------------------------
	for _, id := range ids {
		t, ok := tables[id]
		if !ok {
			continue
		}
		collisions := t.ReadView().Collisions()
		if len(collisions) == 0 {
			fmt.Fprintf(w, "%s glyphs %s: unambiguous\n", PassMark, id)
			continue
		}
		desc := strings.Join(lo.Map(collisions, func(c script.Collision, _ int) string {
			return fmt.Sprintf("%s %q read as %q, not %q", c.Category, c.Glyph, c.Kept, c.Dropped)
		}), "; ")
		res.fail(fmt.Sprintf("glyphs %s: %s", id, desc))
		fmt.Fprintf(w, "%s glyphs %s: %d ambiguous (%s)\n", FailMark, id, len(collisions), desc)
	}

	// ---- round trip through romanization ----------------------------------
	_, romanErr := reg.Load(script.IASTISO)
	for _, id := range ids {
		t, ok := tables[id]
		if !ok || !t.Abugida() {
			continue
		}
		err := romanErr
		if err == nil {
			err = roundTrip(reg, t)
		}
		if err != nil {
			res.fail(fmt.Sprintf("round trip %s: %v", id, err))
			fmt.Fprintf(w, "%s round trip %s: %v\n", FailMark, id, err)
		} else {
			fmt.Fprintf(w, "%s round trip %s: ok\n", PassMark, id)
		}
	}

	return res
}

// syllables returns every independent vowel and every consonant with each
// vowel sign, as space-separated text in t's script.
func syllables(t *script.Table) string {
	vowels := t.Names(script.IndependentVowel)

	tokens := lo.FlatMap(vowels, func(v string, _ int) []script.Token {
		return []script.Token{script.Tok(script.IndependentVowel, v), script.Space(" ")}
	})
	for _, c := range t.Names(script.Consonant) {
		for _, v := range vowels {
			tokens = append(tokens,
				script.Tok(script.Consonant, c),
				script.Tok(script.VowelSign, v),
				script.Space(" "),
			)
		}
	}

	return render.New(t).Render(tokens).Text
}

// roundTrip converts every syllable of t to romanization and back and
// reports the first word that does not survive.
func roundTrip(reg *script.Registry, t *script.Table) error {
	toRoman, err := translit.NewWithRegistry(reg, t.ID(), script.IASTISO)
	if err != nil {
		return err
	}
	fromRoman, err := translit.NewWithRegistry(reg, script.IASTISO, t.ID())
	if err != nil {
		return err
	}

	native := syllables(t)
	roman := toRoman.Convert(native)
	back := fromRoman.Convert(roman.Text)
	if roman.Dropped > 0 || back.Dropped > 0 {
		return fmt.Errorf("%d glyphs dropped", roman.Dropped+back.Dropped)
	}
	if back.Text == native {
		return nil
	}

	want, got := strings.Fields(native), strings.Fields(back.Text)
	for i := range min(len(want), len(got)) {
		if want[i] != got[i] {
			return fmt.Errorf("%q came back as %q", want[i], got[i])
		}
	}
	return fmt.Errorf("%d words came back as %d", len(want), len(got))
}
