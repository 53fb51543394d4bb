package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ERPMetrics records JSON-RPC calls made against the ERP.
type ERPMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewERPMetrics registers the ERP client metrics on the provided registerer.
func NewERPMetrics(reg prometheus.Registerer) *ERPMetrics {
	if reg == nil {
		return &ERPMetrics{}
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_rpc_calls_total",
		Help: "ERP JSON-RPC calls by model, method and result.",
	}, []string{"model", "method", "result"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "erp_rpc_duration_seconds",
		Help:    "ERP JSON-RPC latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "method"})
	reg.MustRegister(calls, latency)
	return &ERPMetrics{calls: calls, latency: latency}
}

// ObserveCall records one JSON-RPC round trip.
func (e *ERPMetrics) ObserveCall(model, method string, err error, duration time.Duration) {
	if e == nil || e.calls == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	model, method = normalizeLabel(model), normalizeLabel(method)
	e.calls.WithLabelValues(model, method, result).Inc()
	e.latency.WithLabelValues(model, method).Observe(duration.Seconds())
}
