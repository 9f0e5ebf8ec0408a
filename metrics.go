package berth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes recorded by Metrics.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Metrics is a Middleware exporting Prometheus resolution metrics.
type Metrics struct {
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration, which is handy in tests.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "resolutions_total",
				Help:      "Total number of key resolutions by lifetime and outcome.",
			},
			[]string{"lifetime", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "resolve_duration_seconds",
				Help:      "Duration of key resolutions in seconds, factory time included.",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"lifetime"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.resolutions, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// BeforeResolve implements Middleware.
func (m *Metrics) BeforeResolve(Key) error {
	return nil
}

// AfterResolve implements Middleware.
func (m *Metrics) AfterResolve(res Resolution) error {
	outcome := OutcomeHit

	switch {
	case res.Err != nil:
		outcome = OutcomeError
	case !res.Found || res.Instance == nil:
		outcome = OutcomeMiss
	}

	lifetime := res.Lifetime.String()
	m.resolutions.WithLabelValues(lifetime, outcome).Inc()
	m.duration.WithLabelValues(lifetime).Observe(res.Duration.Seconds())

	return nil
}

// Resolutions exposes the counter, mainly for tests.
func (m *Metrics) Resolutions() *prometheus.CounterVec {
	return m.resolutions
}
