package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/go-lipi/internal/bench"
	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/script"
	textpkg "github.com/example/go-lipi/internal/text"
	"github.com/example/go-lipi/internal/translit"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		text          string
		runs          int
		repeat        int
		format        string
		minThroughput float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark transliteration throughput",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("--text is required for bench")
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			source, target, err := resolveScripts(cfg)
			if err != nil {
				return err
			}
			input, err := textpkg.Normalize(strings.Repeat(text+"\n", repeat))
			if err != nil {
				return err
			}

			results, err := runBench(cmd.Context(), benchOptions{
				Registry: script.OpenRegistry(cfg.Scripts.TableDir),
				Source:   source,
				Target:   target,
				Text:     input,
				Runs:     runs,
				Convert:  cfg.Convert,
			})
			if err != nil {
				return err
			}

			stats := bench.ComputeStats(lo.Map(results, func(r bench.RunResult, _ int) time.Duration {
				return r.Duration
			}))

			switch format {
			case "json":
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			return bench.CheckThroughputThreshold(bench.MeanThroughput(results), minThroughput)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to convert on each run (required)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of conversion runs")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Repeat --text this many times (one per line) to build the input")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minThroughput, "min-throughput", 0, "Exit non-zero if mean warm throughput in MiB/s is below this value (0 = disabled)")

	return cmd
}

type benchOptions struct {
	Registry *script.Registry
	Source   script.ID
	Target   script.ID
	Text     string
	Runs     int
	Convert  config.ConvertConfig
}

// runBench builds a fresh conversion context per run so the first run pays
// for table parsing and later runs hit the registry cache.
func runBench(ctx context.Context, opts benchOptions) ([]bench.RunResult, error) {
	results := make([]bench.RunResult, 0, opts.Runs)

	for i := range opts.Runs {
		start := time.Now()
		c, err := translit.NewWithRegistry(opts.Registry, opts.Source, opts.Target)
		if err != nil {
			return nil, err
		}
		if _, err := c.ConvertChunked(ctx, opts.Text, opts.Convert.ChunkBytes, opts.Convert.Workers); err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
		dur := time.Since(start)

		results = append(results, bench.RunResult{
			Index:      i,
			Cold:       i == 0,
			Duration:   dur,
			InputBytes: len(opts.Text),
			Throughput: bench.CalcThroughput(len(opts.Text), dur),
		})
	}

	return results, nil
}
