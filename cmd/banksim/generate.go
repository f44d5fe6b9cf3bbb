package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/banksim/internal/api"
	"github.com/gyaneshwarpardhi/banksim/internal/composer"
	"github.com/gyaneshwarpardhi/banksim/internal/config"
	"github.com/gyaneshwarpardhi/banksim/internal/refdata"
	"github.com/gyaneshwarpardhi/banksim/internal/sampler"
	"github.com/gyaneshwarpardhi/banksim/internal/scheduler"
	"github.com/gyaneshwarpardhi/banksim/internal/sink"
)

func generateCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one event generator until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cfgPath)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "configs/auth.yaml", "path to the generator YAML config")
	return cmd
}

func runGenerate(cfgPath string) error {
	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(cfgPath)
	if err != nil {
		return err
	}
	cfg := loader.Config()

	plan, err := cfg.BuildPlan()
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}
	domain, err := cfg.BuildDomain()
	if err != nil {
		return err
	}

	// ── Reference data & sinks ───────────────────────────────────────────────
	ref := refdata.NewFaker(cfg.Seed)
	dir := refdata.NewDirectory(ref, cfg.Reference.Users, cfg.Reference.Accounts)

	out, err := sink.OpenFiles(cfg.LogDir, cfg.Service)
	if err != nil {
		return err
	}
	defer out.Close()
	jsonPath, textPath := sink.Paths(cfg.LogDir, cfg.Service)

	rng := sampler.NewRand()
	if cfg.Seed != 0 {
		rng = sampler.Seeded(cfg.Seed)
	}

	// ── Scheduler ─────────────────────────────────────────────────────────────
	sched, err := scheduler.New(scheduler.Config{
		Plan:          plan,
		Composer:      composer.New(domain, dir),
		Ref:           ref,
		Sink:          out,
		Rand:          rng,
		ProgressEvery: cfg.ProgressEvery,
		Logger:        slog.Default(),
	})
	if err != nil {
		return err
	}

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	config.Bind(loader, sched.Swap)
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.New(sched, loader),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		slog.Info("ops server starting", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("ops server error", "err", err)
		}
	}()

	slog.Info("generator configured",
		"service", cfg.Service,
		"kinds", plan.Catalog.Len(),
		"json_log", jsonPath,
		"text_log", textPath,
	)

	// ── Run until interrupted ────────────────────────────────────────────────
	ctx, stop := exitOnSignal()
	defer stop()
	sched.Run(ctx)

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	return nil
}

// exitOnSignal cancels ctx on SIGINT/SIGTERM.
func exitOnSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
