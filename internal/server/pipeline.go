package server

import (
	"context"

	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/translit"
	"github.com/samber/lo"
)

// Pipeline serves conversions from one table registry. Large texts are split
// and converted in parallel.
type Pipeline struct {
	registry   *script.Registry
	chunkBytes int
	workers    int
}

func NewPipeline(reg *script.Registry, chunkBytes, workers int) *Pipeline {
	return &Pipeline{registry: reg, chunkBytes: chunkBytes, workers: workers}
}

func (p *Pipeline) Transliterate(ctx context.Context, text string, source, target script.ID) (translit.Result, error) {
	c, err := translit.NewWithRegistry(p.registry, source, target)
	if err != nil {
		return translit.Result{}, err
	}
	return c.ConvertChunked(ctx, text, p.chunkBytes, p.workers)
}

// ListScripts reports every registered script.
func (p *Pipeline) ListScripts() []ScriptInfo {
	return lo.Map(script.IDs(), func(id script.ID, _ int) ScriptInfo {
		return ScriptInfo{ID: id, Abugida: id.IsAbugida()}
	})
}
