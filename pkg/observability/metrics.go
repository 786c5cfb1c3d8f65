package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/travelsir/pkg/domain"
)

// Run outcomes used as the "status" label of travelsir_runs_total.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusAnomaly   = "anomaly"
	StatusFailed    = "failed"
)

// Metrics holds the Prometheus collectors describing simulation runs.
type Metrics struct {
	Runs      *prometheus.CounterVec
	Steps     prometheus.Counter
	Anomalies *prometheus.CounterVec
	Infected  *prometheus.GaugeVec
	Duration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travelsir_runs_total",
				Help: "Simulation runs by outcome",
			},
			[]string{"status"},
		),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travelsir_steps_total",
			Help: "Snapshots produced, including initial states",
		}),
		Anomalies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travelsir_anomalies_total",
				Help: "Numeric anomalies reported by the invariant check",
			},
			[]string{"kind"},
		),
		Infected: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "travelsir_infected",
				Help: "Infected count of each population at the most recent step",
			},
			[]string{"population"},
		),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "travelsir_run_duration_seconds",
			Help:    "Wall time of simulation runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Runs, m.Steps, m.Anomalies, m.Infected, m.Duration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.Inc()
			for _, p := range domain.Populations {
				m.Infected.WithLabelValues(p.Key()).Set(e.Snapshot.Value(p, domain.Infected))
			}
		},
		OnAnomaly: func(_ context.Context, e *domain.AnomalyEvent) {
			m.Anomalies.WithLabelValues(string(e.Anomaly.Kind)).Inc()
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(Status(e.Err)).Inc()
			m.Duration.Observe(e.Duration.Seconds())
		},
	}
}

// Status classifies the error a run ended with.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusCompleted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	case errors.Is(err, domain.ErrNumericAnomaly):
		return StatusAnomaly
	}
	return StatusFailed
}
