// Package metrics holds the Prometheus collectors of the site.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/namecardai/namecard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. Use New; each instance owns its registry so
// tests and multiple servers do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	PageViews     *prometheus.CounterVec
	LevelEvents   *prometheus.CounterVec
	StepEvents    *prometheus.CounterVec
	Submissions   *prometheus.CounterVec
	SubmitLatency prometheus.Histogram
	Sessions      prometheus.Gauge
	WaitlistJoins prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namecard_page_views_total",
			Help: "Rendered pages by path.",
		}, []string{"path"}),
		LevelEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namecard_tutorial_events_total",
			Help: "Tutorial level events by type and level.",
		}, []string{"event", "level"}),
		StepEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namecard_wizard_transitions_total",
			Help: "Wizard navigation attempts by event and target step.",
		}, []string{"event", "step"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "namecard_signup_submissions_total",
			Help: "Sign-up submissions by outcome.",
		}, []string{"outcome"}),
		SubmitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "namecard_signup_submit_duration_seconds",
			Help:    "Duration of account creation calls.",
			Buckets: prometheus.DefBuckets,
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "namecard_sessions_active",
			Help: "Live browser sessions.",
		}),
		WaitlistJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "namecard_waitlist_joins_total",
			Help: "New waitlist addresses.",
		}),
	}
	m.Registry.MustRegister(
		m.PageViews, m.LevelEvents, m.StepEvents, m.Submissions,
		m.SubmitLatency, m.Sessions, m.WaitlistJoins,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Hooks records controller lifecycle events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLevel: func(_ context.Context, e *domain.LevelEvent) {
			m.LevelEvents.WithLabelValues(string(e.Type), strconv.Itoa(e.LevelID)).Inc()
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.StepEvents.WithLabelValues(string(e.Type), strconv.Itoa(e.To)).Inc()
		},
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			switch e.Type {
			case domain.EventSubmitSucceeded:
				m.Submissions.WithLabelValues("success").Inc()
				m.SubmitLatency.Observe(e.Duration.Seconds())
			case domain.EventSubmitFailed:
				m.Submissions.WithLabelValues("failure").Inc()
				m.SubmitLatency.Observe(e.Duration.Seconds())
			}
		},
	}
}
