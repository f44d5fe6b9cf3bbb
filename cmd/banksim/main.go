package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "banksim",
	Short: "Synthetic banking event generators",
	Long: `banksim produces realistic authentication, payment, fraud and
notification log streams, a synthetic Prometheus metrics endpoint, and
bootstraps the log search stack that consumes them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "operational log level (debug|info|warn|error)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(generateCmd(), metricsCmd(), provisionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
