package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/banksim/internal/provision"
)

func provisionCmd() *cobra.Command {
	var cfg provision.Config
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the index template, data view and dashboard for the generated logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := exitOnSignal()
			defer stop()

			results, err := provision.New(cfg).Run(ctx)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			slog.Info("setup completed", "steps", len(results), "failed", failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.ElasticsearchURL, "elasticsearch", provision.DefaultElasticsearchURL, "Elasticsearch base URL")
	cmd.Flags().StringVar(&cfg.KibanaURL, "kibana", provision.DefaultKibanaURL, "Kibana base URL")
	cmd.Flags().DurationVar(&cfg.PollInterval, "poll-interval", provision.DefaultPollInterval, "health check interval")
	cmd.Flags().DurationVar(&cfg.Settle, "settle", provision.DefaultSettle, "pause after both services are ready")
	cmd.Flags().DurationVar(&cfg.RequestTimeout, "timeout", provision.DefaultRequestTimeout, "per-request timeout")
	return cmd
}
