package main

import (
	"fmt"

	"github.com/example/go-lipi/internal/script"
	"github.com/spf13/cobra"
)

func newScriptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List supported scripts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, id := range script.IDs() {
				kind := "romanized"
				if id.IsAbugida() {
					kind = "abugida"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", id, kind); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
