package main

import (
	"context"
	"fmt"
	"time"

	"github.com/example/go-lipi/internal/server"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a running server is healthy and serves the configured scripts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.ListenAddr
			}
			source, target, err := resolveScripts(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := server.ProbeHTTP(ctx, addr, source, target); err != nil {
				return fmt.Errorf("probe %s: %w", addr, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok (%s, %s)\n", source, target)
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP server address to probe (defaults to server.listen_addr)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Probe timeout")

	return cmd
}
