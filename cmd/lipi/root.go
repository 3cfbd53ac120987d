package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/server"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "lipi",
		Short:         "Transliterate between Indic scripts and romanization",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newTokensCmd())
	cmd.AddCommand(newScriptsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBenchCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Scripts.Source == "" {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// resolveScripts parses the configured source and target scripts.
func resolveScripts(cfg config.Config) (source, target script.ID, err error) {
	source, err = config.NormalizeScript(cfg.Scripts.Source)
	if err != nil {
		return "", "", fmt.Errorf("--from: %w", err)
	}
	target, err = config.NormalizeScript(cfg.Scripts.Target)
	if err != nil {
		return "", "", fmt.Errorf("--to: %w", err)
	}
	return source, target, nil
}
