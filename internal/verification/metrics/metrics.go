package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for residency verification.
type Metrics struct {
	// Outcomes by status and reason
	Outcomes *prometheus.CounterVec

	// Full evaluation latency, including store calls
	EvaluateLatency prometheus.Histogram

	// Binds lost to another citizen, at lookup or in a race
	BindConflicts *prometheus.CounterVec

	// Side effects that could not be dispatched
	DispatchFailures *prometheus.CounterVec

	// State writes refused because a concurrent attempt committed first
	StateConflicts prometheus.Counter
}

// New registers verification metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "residency_verification_outcomes_total",
			Help: "Verification outcomes by status and reason",
		}, []string{"status", "reason"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "residency_verification_evaluate_duration_seconds",
			Help:    "Duration of a full verification evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		BindConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "residency_document_bind_conflicts_total",
			Help: "Document binds refused because another citizen holds the document",
		}, []string{"stage"}), // stage: "lookup", "bind"

		DispatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "residency_verification_dispatch_failures_total",
			Help: "Verification side effects that failed to dispatch",
		}, []string{"status"}),

		StateConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "residency_citizen_state_conflicts_total",
			Help: "Citizen state writes that lost to a concurrent verification",
		}),
	}
}

// IncrementOutcome records a verification outcome.
func (m *Metrics) IncrementOutcome(status, reason string) {
	if m != nil {
		m.Outcomes.WithLabelValues(status, reason).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementBindConflict records a document held by another citizen.
func (m *Metrics) IncrementBindConflict(stage string) {
	if m != nil {
		m.BindConflicts.WithLabelValues(stage).Inc()
	}
}

// IncrementDispatchFailure records a failed side-effect dispatch.
func (m *Metrics) IncrementDispatchFailure(status string) {
	if m != nil {
		m.DispatchFailures.WithLabelValues(status).Inc()
	}
}

// IncrementStateConflict records a citizen write that lost a race.
func (m *Metrics) IncrementStateConflict() {
	if m != nil {
		m.StateConflicts.Inc()
	}
}
