package observability

import (
	"context"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Rewrites  *prometheus.CounterVec
	Passes    prometheus.Counter
	Allocated prometheus.Counter
	Redexes   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if they are already registered, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Rewrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inet_rewrites_total",
				Help: "Rule applications, by rule.",
			},
			[]string{"rule"},
		),
		Passes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inet_passes_total",
			Help: "Driver sweeps performed.",
		}),
		Allocated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inet_agents_allocated_total",
			Help: "Agents allocated by duplicate and erase rules.",
		}),
		Redexes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inet_pass_redexes",
			Help:    "Redexes found at the start of a sweep.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	reg.MustRegister(m.Rewrites, m.Passes, m.Allocated, m.Redexes)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRewrite: func(_ context.Context, e *domain.RewriteEvent) {
			m.Rewrites.WithLabelValues(string(e.Rule)).Inc()
			if e.Allocated > 0 {
				m.Allocated.Add(float64(e.Allocated))
			}
		},
		OnPass: func(_ context.Context, e *domain.PassEvent) {
			m.Passes.Inc()
			m.Redexes.Observe(float64(e.Report.Redexes))
		},
	}
}
