package envutil

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts Resolve outcomes. Create one per registry with NewMetrics
// and pass it to Resolve with WithMetrics.
type Metrics struct {
	// resolutions counts Resolve calls.
	//
	// Labels:
	//   - outcome: "ok" when a Config was returned, "failed" otherwise.
	resolutions *prometheus.CounterVec

	// failures counts individual variables that failed to resolve.
	//
	// Labels:
	//   - key: the unprefixed variable name. Keys come from the schema, so
	//     cardinality is bounded by the number of declared variables.
	//   - kind: "missing" or "invalid".
	failures *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg. A nil reg
// creates unregistered counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "env_resolutions_total",
			Help: "The total number of environment resolutions, by outcome",
		}, []string{"outcome"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "env_variable_failures_total",
			Help: "The total number of environment variables that failed to resolve",
		}, []string{"key", "kind"}),
	}
}

func (m *Metrics) observe(failures []Failure) {
	if m == nil {
		return
	}

	if len(failures) == 0 {
		m.resolutions.WithLabelValues("ok").Inc()

		return
	}

	m.resolutions.WithLabelValues("failed").Inc()

	for _, f := range failures {
		m.failures.WithLabelValues(f.Key, f.Kind.String()).Inc()
	}
}
