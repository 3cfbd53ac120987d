package translit

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/text"
	"golang.org/x/sync/errgroup"
)

// ConvertChunked converts a large text by splitting it on whitespace into
// chunks of about chunkBytes and converting up to workers chunks at once.
// The result is identical to Convert because no chunk boundary falls inside
// a word.
func (c *Context) ConvertChunked(ctx context.Context, input string, chunkBytes, workers int) (Result, error) {
	chunks := text.Chunk(input, chunkBytes)
	if len(chunks) == 1 {
		return c.Convert(input), ctx.Err()
	}

	results := make([]Result, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.Convert(chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return merge(results), nil
}

// Job is one document for ConvertBatch.
type Job struct {
	Name   string
	Text   string
	Source script.ID
	Target script.ID
	// Registry supplies the tables. Nil means the embedded set.
	Registry *script.Registry
}

// ConvertBatch converts independent documents in parallel. Results are in
// job order. The first failing job cancels the rest.
func ConvertBatch(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reg := job.Registry
			if reg == nil {
				reg = script.Default()
			}
			c, err := NewWithRegistry(reg, job.Source, job.Target)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = c.Convert(job.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func workerLimit(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

func merge(results []Result) Result {
	var (
		b   strings.Builder
		out Result
	)
	for _, r := range results {
		b.WriteString(r.Text)
		out.Dropped += r.Dropped
		out.Unknown += r.Unknown
	}
	out.Text = b.String()
	return out
}
