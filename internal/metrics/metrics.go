package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banksim_events_generated_total",
		Help: "Total number of synthetic events composed, labelled by service, kind and final severity.",
	}, []string{"service", "kind", "severity"})

	SinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banksim_sink_errors_total",
		Help: "Total number of events that could not be written to every sink.",
	}, []string{"service"})

	Cycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banksim_cycles_total",
		Help: "Total number of scheduler cycles started.",
	}, []string{"service"})

	CycleErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banksim_cycle_errors_total",
		Help: "Total number of scheduler cycles aborted by an error.",
	}, []string{"service"})

	BurstSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "banksim_burst_size",
		Help:    "Number of events planned per scheduler cycle.",
		Buckets: []float64{1, 2, 4, 6, 8, 12, 16, 24, 32},
	}, []string{"service"})

	ActivityMultiplier = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "banksim_activity_multiplier",
		Help: "Activity multiplier used by the most recent cycle.",
	}, []string{"service"})

	PlanReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banksim_plan_reloads_total",
		Help: "Total number of generation plan reloads, labelled by outcome.",
	}, []string{"service", "status"})
)
