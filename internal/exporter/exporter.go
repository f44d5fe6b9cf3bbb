// Package exporter publishes synthetic operational metrics for the banking
// services so that dashboards have something to plot.
package exporter

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/banksim/internal/activity"
	"github.com/gyaneshwarpardhi/banksim/internal/composer"
)

const (
	DefaultAddr     = ":8080"
	DefaultInterval = 5 * time.Second
)

var (
	Services = []string{
		composer.AuthService,
		composer.PaymentService,
		composer.FraudService,
		composer.NotificationService,
	}
	methods  = []string{"GET", "POST", "PUT", "DELETE"}
	statuses = []string{"200", "400", "401", "500"}
	Queues   = []string{"payment_queue", "notification_queue", "fraud_analysis_queue"}
)

type span struct{ min, max int }

// activeUsers is the base range of active users per time-of-day band.
var activeUsers = map[string]span{
	"business": {800, 1200},
	"evening":  {400, 700},
	"night":    {50, 200},
}

type floatSpan struct{ min, max float64 }

var errorRates = map[string]floatSpan{
	composer.FraudService:   {1, 8},
	composer.PaymentService: {0.5, 5},
}

var defaultErrorRate = floatSpan{0.1, 3}

// Exporter owns a private registry so its series never mix with the
// generator self-metrics.
type Exporter struct {
	reg   *prometheus.Registry
	bands *activity.Profile

	mu  sync.Mutex
	rng *rand.Rand

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	activeUsers       prometheus.Gauge
	transactionAmount prometheus.Counter
	errorRate         *prometheus.GaugeVec
	queueSize         *prometheus.GaugeVec
}

// New returns an Exporter drawing values from rng.
func New(rng *rand.Rand) *Exporter {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	bands, err := activity.New([]activity.Window{
		{Name: "business", Start: 9, End: 18, Multiplier: 1},
		{Name: "evening", Start: 19, End: 22, Multiplier: 1},
		{Name: "night", Start: 23, End: 8, Multiplier: 1},
	})
	if err != nil {
		panic(err)
	}
	return &Exporter{
		reg:   reg,
		bands: bands,
		rng:   rng,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "banking_requests_total",
			Help: "Total requests",
		}, []string{"service", "method", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "banking_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		activeUsers: f.NewGauge(prometheus.GaugeOpts{
			Name: "banking_active_users",
			Help: "Currently active users",
		}),
		transactionAmount: f.NewCounter(prometheus.CounterOpts{
			Name: "banking_transaction_amount_total",
			Help: "Total transaction amount",
		}),
		errorRate: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "banking_error_rate",
			Help: "Error rate percentage",
		}, []string{"service"}),
		queueSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "banking_queue_size",
			Help: "Queue size",
		}, []string{"queue_name"}),
	}
}

// Registry exposes the private registry, mostly for tests.
func (e *Exporter) Registry() *prometheus.Registry { return e.reg }

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.reg, promhttp.HandlerOpts{Registry: e.reg})
}

func (e *Exporter) intRange(s span) int { return s.min + e.rng.IntN(s.max-s.min+1) }

func (e *Exporter) floatRange(s floatSpan) float64 { return s.min + e.rng.Float64()*(s.max-s.min) }

// Update moves every series one step for the given hour of day.
func (e *Exporter) Update(hour int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	base := e.intRange(activeUsers[e.bands.WindowName(hour)])
	e.activeUsers.Set(float64(base + e.intRange(span{-50, 50})))

	for _, svc := range Services {
		for _, m := range methods {
			for _, st := range statuses {
				odds := 0.05
				if st == "200" {
					odds = 0.8
				}
				if e.rng.Float64() < odds {
					e.requests.WithLabelValues(svc, m, st).Add(float64(e.intRange(span{1, 10})))
				}
			}
		}
		e.requestDuration.WithLabelValues(svc).Observe(e.floatRange(floatSpan{0.01, 2.0}))

		rate, ok := errorRates[svc]
		if !ok {
			rate = defaultErrorRate
		}
		e.errorRate.WithLabelValues(svc).Set(e.floatRange(rate))
	}

	for _, q := range Queues {
		size := span{0, 100}
		if q == "payment_queue" {
			size = span{10, 500}
		}
		e.queueSize.WithLabelValues(q).Set(float64(e.intRange(size)))
	}

	e.transactionAmount.Add(e.floatRange(floatSpan{1000, 500000}))
}

// Run updates the series every interval until ctx is cancelled and returns
// the number of updates made.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) int64 {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	var n int64
	for {
		e.Update(time.Now().Hour())
		n++
		if n%60 == 0 {
			slog.Info("metrics updated", "updates", n)
		}
		select {
		case <-ctx.Done():
			slog.Info("metrics exporter stopped", "updates", n)
			return n
		case <-t.C:
		}
	}
}
