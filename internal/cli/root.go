// Package cli holds the paydesk command tree.
package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"paydesk/internal/platform/config"
)

var rootCmd = &cobra.Command{
	Use:   "paydesk",
	Short: "Payroll administration service",
	Long: `paydesk records employees, computes pay runs against the statutory
holiday calendar, tracks pay history status and schedules paystub delivery
through an external workflow endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		return 1
	}
	return 0
}

// loadConfig reads configuration and installs the process logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(newLogger(cfg, cmd.ErrOrStderr()))
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if format == "json" || (format == "" && cfg.Production()) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
