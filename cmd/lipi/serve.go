package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/example/go-lipi/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the transliteration HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			srv := server.New(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("listening",
				slog.String("addr", cfg.Server.ListenAddr),
				slog.Int("workers", cfg.Server.Workers),
				slog.String("table_dir", cfg.Scripts.TableDir),
			)
			return srv.Start(ctx)
		},
	}
}
