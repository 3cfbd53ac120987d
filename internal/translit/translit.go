// Package translit runs the segment, tokenize and render stages between two
// scripts.
package translit

import (
	"github.com/example/go-lipi/internal/render"
	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/segment"
	"github.com/example/go-lipi/internal/tokenize"
)

// Result is converted text plus counts of lossy units.
type Result struct {
	Text string
	// Dropped counts phonemes the target script has no glyph for.
	Dropped int
	// Unknown counts input units no source table recognised. They are
	// copied to the output unchanged.
	Unknown int
}

// Context converts text from one script to another. It is immutable after
// construction and safe for concurrent use.
type Context struct {
	source    *script.Table
	target    *script.Table
	tokenizer *tokenize.Tokenizer
	renderer  *render.Renderer
}

// New returns a Context using the embedded script tables.
func New(source, target script.ID) (*Context, error) {
	return NewWithRegistry(script.Default(), source, target)
}

// NewWithRegistry returns a Context whose tables come from reg.
func NewWithRegistry(reg *script.Registry, source, target script.ID) (*Context, error) {
	src, err := reg.Load(source)
	if err != nil {
		return nil, err
	}
	dst, err := reg.Load(target)
	if err != nil {
		return nil, err
	}
	return &Context{
		source:    src,
		target:    dst,
		tokenizer: tokenize.ForTable(src),
		renderer:  render.New(dst),
	}, nil
}

func (c *Context) Source() script.ID { return c.source.ID() }
func (c *Context) Target() script.ID { return c.target.ID() }

// Tokens returns the phonemic token stream for text in the source script.
func (c *Context) Tokens(text string) []script.Token {
	return c.tokenizer.Tokenize(segment.Segment(text))
}

// Convert transliterates text. Unrecognised input passes through and missing
// target glyphs are dropped; both are counted rather than reported as errors.
func (c *Context) Convert(text string) Result {
	tokens := c.Tokens(text)
	out := c.renderer.Render(tokens)

	unknown := 0
	for _, tok := range tokens {
		if tok.Category == script.Unknown {
			unknown++
		}
	}

	return Result{Text: out.Text, Dropped: out.Dropped, Unknown: unknown}
}

// Transliterate converts text from source to target using the embedded
// tables. It fails only with a *script.ConfigError.
func Transliterate(text string, source, target script.ID) (string, error) {
	c, err := New(source, target)
	if err != nil {
		return "", err
	}
	return c.Convert(text).Text, nil
}
