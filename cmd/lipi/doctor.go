package main

import (
	"errors"
	"fmt"

	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/doctor"
	"github.com/example/go-lipi/internal/script"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check script tables and round-trip conversions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(stdout, "tables: %s\n", tableSource(cfg.Scripts.TableDir))

			result := doctor.Run(doctor.Config{
				Registry: script.OpenRegistry(cfg.Scripts.TableDir),
				TableDir: cfg.Scripts.TableDir,
			}, stdout)

			for _, raw := range []string{cfg.Scripts.Source, cfg.Scripts.Target} {
				if _, err := config.NormalizeScript(raw); err != nil {
					result.AddFailure(fmt.Sprintf("config: %v", err))
					_, _ = fmt.Fprintf(stdout, "%s config script %q: %v\n", doctor.FailMark, raw, err)
				}
			}

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(stdout, "doctor checks passed")

			return nil
		},
	}

	return cmd
}

func tableSource(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}
