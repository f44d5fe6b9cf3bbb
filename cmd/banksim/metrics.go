package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/banksim/internal/exporter"
	"github.com/gyaneshwarpardhi/banksim/internal/sampler"
)

func metricsCmd() *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve synthetic banking service metrics for Prometheus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetrics(addr, interval)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", exporter.DefaultAddr, "HTTP listen address")
	cmd.Flags().DurationVar(&interval, "interval", exporter.DefaultInterval, "time between metric updates")
	return cmd
}

func runMetrics(addr string, interval time.Duration) error {
	exp := exporter.New(sampler.NewRand())

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", exp.Handler())
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("metrics exporter starting", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	ctx, stop := exitOnSignal()
	defer stop()
	go func() {
		select {
		case err := <-errc:
			slog.Error("metrics server error", "err", err)
			stop()
		case <-ctx.Done():
		}
	}()
	exp.Run(ctx, interval)

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
