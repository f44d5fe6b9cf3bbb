// Package scheduler paces event generation: every cycle it sizes a burst
// from the hour's activity, draws and composes that many events, hands each
// to the sink and then sleeps.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/banksim/internal/composer"
	"github.com/gyaneshwarpardhi/banksim/internal/event"
	"github.com/gyaneshwarpardhi/banksim/internal/metrics"
	"github.com/gyaneshwarpardhi/banksim/internal/refdata"
	"github.com/gyaneshwarpardhi/banksim/internal/sampler"
	"github.com/gyaneshwarpardhi/banksim/internal/sink"
)

// Stats are the running totals of a scheduler.
type Stats struct {
	Events      int64 `json:"events"`
	Cycles      int64 `json:"cycles"`
	CycleErrors int64 `json:"cycle_errors"`
	SinkErrors  int64 `json:"sink_errors"`
}

// CycleResult describes one finished (or aborted) cycle.
type CycleResult struct {
	Burst    BurstPlan
	Composed int
}

// Config wires a Scheduler. Rand, Now, Sleep and Logger are optional.
type Config struct {
	Plan          *Plan
	Composer      *composer.Composer
	Ref           refdata.Provider
	Sink          sink.Sink
	Rand          *rand.Rand
	Now           func() time.Time
	Sleep         func(ctx context.Context, d time.Duration) error
	ProgressEvery int
	Logger        *slog.Logger
}

// Scheduler runs cycles strictly one after another. Only Swap and Stats
// may be called from other goroutines while Run is active.
type Scheduler struct {
	plan     atomic.Pointer[Plan]
	sampler  *sampler.Sampler
	composer *composer.Composer
	ref      refdata.Provider
	sink     sink.Sink
	rng      *rand.Rand
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	progress int64
	log      *slog.Logger
	service  string

	events, cycles, cycleErrors, sinkErrors atomic.Int64
}

// New returns a Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Plan == nil || cfg.Composer == nil || cfg.Ref == nil || cfg.Sink == nil {
		return nil, errors.New("scheduler: plan, composer, reference data and sink are required")
	}
	s := &Scheduler{
		composer: cfg.Composer,
		ref:      cfg.Ref,
		sink:     cfg.Sink,
		rng:      cfg.Rand,
		now:      cfg.Now,
		sleep:    cfg.Sleep,
		progress: int64(cfg.ProgressEvery),
		log:      cfg.Logger,
		service:  cfg.Composer.Domain().Service,
	}
	if s.rng == nil {
		s.rng = sampler.NewRand()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.sleep == nil {
		s.sleep = sleepCtx
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("service", s.service)
	s.sampler = sampler.New(s.rng)
	s.plan.Store(cfg.Plan)
	return s, nil
}

// Swap atomically replaces the plan; the next cycle picks it up.
func (s *Scheduler) Swap(p *Plan) { s.plan.Store(p) }

// Plan returns the plan currently in use.
func (s *Scheduler) Plan() *Plan { return s.plan.Load() }

// Stats returns a snapshot of the running totals.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Events:      s.events.Load(),
		Cycles:      s.cycles.Load(),
		CycleErrors: s.cycleErrors.Load(),
		SinkErrors:  s.sinkErrors.Load(),
	}
}

// Run loops until ctx is cancelled and returns the final totals. A failing
// cycle is logged and the loop carries on after the usual pause.
func (s *Scheduler) Run(ctx context.Context) Stats {
	s.log.Info("generator started")
	for ctx.Err() == nil {
		res, err := s.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.cycleErrors.Add(1)
			metrics.CycleErrors.WithLabelValues(s.service).Inc()
			s.log.Error("cycle failed", "err", err, "composed", res.Composed)
		}
		delay := res.Burst.Delay
		if delay <= 0 {
			delay = s.plan.Load().Pacing.DelayMin
		}
		if err := s.sleep(ctx, delay); err != nil {
			break
		}
	}
	st := s.Stats()
	s.log.Info("generator stopped", "total_events", st.Events, "cycles", st.Cycles)
	return st
}

// RunCycle performs a single cycle without sleeping. It stops early when
// ctx is cancelled; panics inside the cycle are returned as errors.
func (s *Scheduler) RunCycle(ctx context.Context) (res CycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	plan := s.plan.Load()
	s.cycles.Add(1)
	metrics.Cycles.WithLabelValues(s.service).Inc()

	res.Burst = plan.Burst(s.now().Hour(), s.rng)
	metrics.BurstSize.WithLabelValues(s.service).Observe(float64(res.Burst.EventCount))
	metrics.ActivityMultiplier.WithLabelValues(s.service).Set(res.Burst.Multiplier)
	s.log.Debug("cycle planned",
		"hour", res.Burst.Hour,
		"multiplier", res.Burst.Multiplier,
		"events", res.Burst.EventCount,
		"delay", res.Burst.Delay,
	)

	for i := 0; i < res.Burst.EventCount; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		kind, err := s.sampler.Draw(plan.Catalog)
		if err != nil {
			return res, err
		}
		var ev *event.Event
		if plan.Escalations != nil {
			ev, err = s.composer.ComposeWith(kind, plan.Catalog, s.ref, plan.Escalations)
		} else {
			ev, err = s.composer.Compose(kind, plan.Catalog, s.ref)
		}
		if err != nil {
			return res, err
		}
		res.Composed++
		total := s.events.Add(1)
		metrics.EventsGenerated.WithLabelValues(s.service, kind, ev.Effective().String()).Inc()
		if s.progress > 0 && total%s.progress == 0 {
			s.log.Info("generated events", "count", total)
		}

		if err := s.sink.Emit(ev); err != nil {
			s.sinkErrors.Add(1)
			metrics.SinkErrors.WithLabelValues(s.service).Inc()
			return res, err
		}
	}
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
