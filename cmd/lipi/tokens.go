package main

import (
	"fmt"
	"strings"

	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/segment"
	"github.com/example/go-lipi/internal/tokenize"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Show grapheme clusters and phonemic tokens for --from text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			source, err := config.NormalizeScript(cfg.Scripts.Source)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			table, err := script.OpenRegistry(cfg.Scripts.TableDir).Load(source)
			if err != nil {
				return err
			}

			input, err := readConvertText(text, cmd.InOrStdin())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			graphemes := segment.Graphemes(input)
			if _, err := fmt.Fprintf(w, "graphemes (%d): %s\n", len(graphemes), strings.Join(graphemes, " | ")); err != nil {
				return err
			}

			tokens := tokenize.ForTable(table).Tokenize(segment.Segment(input))
			for i, tok := range tokens {
				if _, err := fmt.Fprintf(w, "%4d  %s\n", i, tok); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to tokenize (if empty, read from stdin)")

	return cmd
}
