package observability

import (
	"context"

	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request lifecycle events.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bbsdemo_requests_total",
				Help: "Workflow requests by outcome",
			},
			[]string{"workflow", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bbsdemo_request_duration_seconds",
				Help:    "Duration of remote generator calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"workflow"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bbsdemo_requests_in_flight",
				Help: "Remote generator calls currently in flight",
			},
			[]string{"workflow"},
		),
	}
	m.registry.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks feeding m, chained after next.
func (m *Metrics) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRequestStart: func(ctx context.Context, e *domain.RequestEvent) {
			m.inFlight.WithLabelValues(e.Workflow).Inc()
			if next.OnRequestStart != nil {
				next.OnRequestStart(ctx, e)
			}
		},
		OnRequestEnd: func(ctx context.Context, e *domain.RequestEvent) {
			m.requests.WithLabelValues(e.Workflow, string(e.Outcome)).Inc()
			if e.Type == domain.EventRequestEnd {
				m.inFlight.WithLabelValues(e.Workflow).Dec()
				m.duration.WithLabelValues(e.Workflow).Observe(e.Duration.Seconds())
			}
			if next.OnRequestEnd != nil {
				next.OnRequestEnd(ctx, e)
			}
		},
	}
}
