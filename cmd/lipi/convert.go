package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/script"
	textpkg "github.com/example/go-lipi/internal/text"
	"github.com/example/go-lipi/internal/translit"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var text string
	var out string
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Transliterate text, stdin, or files",
		Long: "Transliterate --text, stdin, or each named file from --from to --to.\n" +
			"Line endings and other whitespace are copied unchanged.\n" +
			"Files are converted in parallel. With --out-dir each result is written to\n" +
			"<out-dir>/<name>.<target>.txt, otherwise results go to --out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			source, target, err := resolveScripts(cfg)
			if err != nil {
				return err
			}
			reg := script.OpenRegistry(cfg.Scripts.TableDir)

			if len(args) > 0 {
				return convertFiles(cmd.Context(), convertFilesOptions{
					Paths:    args,
					Source:   source,
					Target:   target,
					Registry: reg,
					Workers:  cfg.Convert.Workers,
					OutDir:   outDir,
					OutPath:  out,
					Stdout:   cmd.OutOrStdout(),
				})
			}

			input, err := readConvertText(text, cmd.InOrStdin())
			if err != nil {
				return err
			}

			res, err := convertText(cmd.Context(), cfg, reg, source, target, input)
			if err != nil {
				return err
			}
			logLossy("input", res)

			return writeConvertOutput(out, res.Text, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to convert (if empty, read from stdin)")
	cmd.Flags().StringVar(&out, "out", "-", "Output path ('-' for stdout)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write one <name>.<target>.txt per input file into this directory")

	return cmd
}

func convertText(ctx context.Context, cfg config.Config, reg *script.Registry, source, target script.ID, input string) (translit.Result, error) {
	c, err := translit.NewWithRegistry(reg, source, target)
	if err != nil {
		return translit.Result{}, err
	}
	return c.ConvertChunked(ctx, input, cfg.Convert.ChunkBytes, cfg.Convert.Workers)
}

type convertFilesOptions struct {
	Paths    []string
	Source   script.ID
	Target   script.ID
	Registry *script.Registry
	Workers  int
	OutDir   string
	OutPath  string
	Stdout   io.Writer
}

func convertFiles(ctx context.Context, opts convertFilesOptions) error {
	jobs := make([]translit.Job, 0, len(opts.Paths))
	for _, path := range opts.Paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		input, err := textpkg.Clean(string(b))
		if err != nil && !errors.Is(err, textpkg.ErrEmptyText) {
			return fmt.Errorf("%s: %w", path, err)
		}
		jobs = append(jobs, translit.Job{
			Name:     path,
			Text:     input,
			Source:   opts.Source,
			Target:   opts.Target,
			Registry: opts.Registry,
		})
	}

	results, err := translit.ConvertBatch(ctx, jobs, opts.Workers)
	if err != nil {
		return err
	}

	var combined strings.Builder
	for i, res := range results {
		logLossy(jobs[i].Name, res)

		if opts.OutDir == "" {
			combined.WriteString(res.Text)
			continue
		}
		dest := outputPath(opts.OutDir, jobs[i].Name, opts.Target)
		if err := os.WriteFile(dest, []byte(res.Text), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		slog.Info("converted file",
			slog.String("input", jobs[i].Name),
			slog.String("output", dest),
		)
	}

	if opts.OutDir != "" {
		return nil
	}
	return writeConvertOutput(opts.OutPath, combined.String(), opts.Stdout)
}

// outputPath names the converted copy of input inside dir, replacing the
// input's extension with .<target>.txt.
func outputPath(dir, input string, target script.ID) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"."+target.String()+".txt")
}

func logLossy(name string, res translit.Result) {
	if res.Dropped == 0 && res.Unknown == 0 {
		return
	}
	slog.Warn("lossy conversion",
		slog.String("input", name),
		slog.Int("dropped", res.Dropped),
		slog.Int("unknown", res.Unknown),
	)
}

func writeConvertOutput(outPath, text string, stdout io.Writer) error {
	if outPath == "-" || outPath == "" {
		if stdout == nil {
			return fmt.Errorf("stdout writer is nil")
		}
		_, err := io.WriteString(stdout, text)
		return err
	}
	return os.WriteFile(outPath, []byte(text), 0o644)
}

func readConvertText(text string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(text) != "" {
		return textpkg.Clean(text)
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input, err := textpkg.Clean(string(b))
	if err != nil {
		return "", fmt.Errorf("either provide --text or pipe text on stdin")
	}
	return input, nil
}
