package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ruteri/arc-name-service/common"
)

// Metrics provides observability for name service operations.
type Metrics struct {
	// Settled operations by operation (register/resolve) and outcome kind
	OperationOutcome *prometheus.CounterVec

	// Time from trigger to settlement, including wallet approval
	OperationLatency *prometheus.HistogramVec

	// Triggers dropped because of empty input or an operation in flight
	DroppedTriggers *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. Use a fresh
// prometheus.NewRegistry() per test to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OperationOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: common.PackageName,
			Name:      "operation_outcomes_total",
			Help:      "Total settled operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: common.PackageName,
			Name:      "operation_duration_seconds",
			Help:      "Duration of register and resolve operations",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),

		DroppedTriggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: common.PackageName,
			Name:      "dropped_triggers_total",
			Help:      "Triggers ignored because the input was empty or an operation was in flight",
		}, []string{"operation", "reason"}),
	}
}

// ObserveOutcome records a settled operation and its duration.
func (m *Metrics) ObserveOutcome(operation, outcome string, d time.Duration) {
	if m != nil {
		m.OperationOutcome.WithLabelValues(operation, outcome).Inc()
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementDropped records a dropped trigger.
func (m *Metrics) IncrementDropped(operation, reason string) {
	if m != nil {
		m.DroppedTriggers.WithLabelValues(operation, reason).Inc()
	}
}
