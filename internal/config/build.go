package config

import (
	"fmt"
	"log/slog"

	"github.com/gyaneshwarpardhi/banksim/internal/activity"
	"github.com/gyaneshwarpardhi/banksim/internal/catalog"
	"github.com/gyaneshwarpardhi/banksim/internal/composer"
	"github.com/gyaneshwarpardhi/banksim/internal/event"
	"github.com/gyaneshwarpardhi/banksim/internal/metrics"
	"github.com/gyaneshwarpardhi/banksim/internal/scheduler"
)

func buildProfile(p ProfileConf) (*activity.Profile, error) {
	if p.Flat != nil {
		return activity.Flat(*p.Flat)
	}
	windows := make([]activity.Window, len(p.Windows))
	for i, w := range p.Windows {
		windows[i] = activity.Window{Name: w.Name, Start: w.Start, End: w.End, Multiplier: w.Multiplier}
	}
	return activity.New(windows)
}

// BuildCatalog converts the catalog section.
func (c *GeneratorConfig) BuildCatalog() (*catalog.Catalog, error) {
	specs := make([]catalog.Spec, len(c.Catalog))
	for i, k := range c.Catalog {
		sev, err := event.ParseSeverity(k.Severity)
		if err != nil {
			return nil, fmt.Errorf("kind %s: %w", k.Name, err)
		}
		specs[i] = catalog.Spec{Name: k.Name, Severity: sev, Weight: k.Weight}
	}
	return catalog.New(specs)
}

// BuildPlan converts catalog, profile, pacing and rules into a scheduler
// plan. The plan always carries the escalations so that a reload can change
// or drop them.
func (c *GeneratorConfig) BuildPlan() (*scheduler.Plan, error) {
	cat, err := c.BuildCatalog()
	if err != nil {
		return nil, err
	}
	profile, err := buildProfile(c.Profile)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	d, err := c.BuildDomain()
	if err != nil {
		return nil, err
	}
	plan, err := scheduler.NewPlan(cat, profile, scheduler.Pacing{
		BurstMin:   c.Pacing.BurstMin,
		BurstMax:   c.Pacing.BurstMax,
		DelayMin:   c.Pacing.DelayMin,
		DelayMax:   c.Pacing.DelayMax,
		ScaleDelay: c.Pacing.DelayScaling != DelayScalingFixed,
	})
	if err != nil {
		return nil, err
	}
	plan.Escalations = append([]composer.Escalation{}, d.Escalations()...)
	return plan, nil
}

// BuildDomain returns the composer table for the service. When the rules
// section is set it replaces the built-in escalations.
func (c *GeneratorConfig) BuildDomain() (*composer.Domain, error) {
	d, err := composer.ForService(c.Service)
	if err != nil {
		return nil, err
	}
	var esc []composer.Escalation
	if c.Rules.LargeAmountThreshold > 0 {
		esc = append(esc, composer.LargeAmount{Threshold: c.Rules.LargeAmountThreshold})
	}
	if r := c.Rules.UnsocialHours; r != nil {
		esc = append(esc, composer.UnsocialHours{Start: r.Start, End: r.End})
	}
	if len(esc) > 0 {
		d.ReplaceEscalations(esc...)
	}
	return d, nil
}

// Bind keeps a running generator in step with the loader: every accepted
// reload becomes a new plan handed to swap. The previous plan is left as is.
func Bind(l *Loader, swap func(*scheduler.Plan)) {
	l.OnChange(func(cfg *GeneratorConfig) {
		plan, err := cfg.BuildPlan()
		if err != nil {
			metrics.PlanReloads.WithLabelValues(cfg.Service, "error").Inc()
			slog.Warn("hot-reload skipped: plan build failed", "service", cfg.Service, "err", err)
			return
		}
		swap(plan)
		metrics.PlanReloads.WithLabelValues(cfg.Service, "ok").Inc()
		slog.Info("plan hot-reloaded",
			"service", cfg.Service,
			"version", cfg.Version,
			"kinds", plan.Catalog.Len(),
			"escalations", len(plan.Escalations),
		)
	})
}
