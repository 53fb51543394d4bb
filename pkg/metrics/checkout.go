package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// CheckoutMetrics records progress of the remote checkout workflow.
type CheckoutMetrics struct {
	stages   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	stages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_stage_total",
		Help: "Checkout workflow steps by stage and result.",
	}, []string{"stage", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "End-to-end checkout duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(stages, duration)
	return &CheckoutMetrics{
		stages:   stages,
		duration: duration,
	}
}

// IncStage counts one attempt of the named step.
func (c *CheckoutMetrics) IncStage(stage, result string) {
	if c == nil || c.stages == nil {
		return
	}
	c.stages.WithLabelValues(normalizeLabel(stage), normalizeLabel(result)).Inc()
}

// ObserveDuration records how long a checkout took, keyed by its final stage.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
