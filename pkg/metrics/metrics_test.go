package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCheckoutMetrics(reg)
	metrics.IncStage("create_order", ResultSuccess)
	metrics.IncStage("confirm_order", ResultFailure)
	metrics.ObserveDuration("order_confirmation_failed", 250*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_stage_total", map[string]string{"stage": "create_order", "result": ResultSuccess}); err != nil {
		t.Fatalf("fetch stage: %v", err)
	} else if got != 1 {
		t.Fatalf("expected create_order success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_stage_total", map[string]string{"stage": "confirm_order", "result": ResultFailure}); err != nil {
		t.Fatalf("fetch stage: %v", err)
	} else if got != 1 {
		t.Fatalf("expected confirm_order failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "checkout_duration_seconds", map[string]string{"outcome": "order_confirmation_failed"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestERPMetricsLabelsResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewERPMetrics(reg)
	metrics.ObserveCall("sale.order", "create", nil, 10*time.Millisecond)
	metrics.ObserveCall("sale.order", "create", errors.New("boom"), 10*time.Millisecond)
	metrics.ObserveCall("", "", nil, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, result := range []string{ResultSuccess, ResultFailure} {
		got, err := fetchCounterValue(mfs, "erp_rpc_calls_total", map[string]string{"model": "sale.order", "method": "create", "result": result})
		if err != nil {
			t.Fatalf("fetch %s: %v", result, err)
		}
		if got != 1 {
			t.Fatalf("expected %s=1, got %f", result, got)
		}
	}
	if _, err := fetchCounterValue(mfs, "erp_rpc_calls_total", map[string]string{"model": "unknown"}); err != nil {
		t.Fatalf("expected empty labels to normalise: %v", err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var checkout *CheckoutMetrics
	checkout.IncStage("create_order", ResultSuccess)
	checkout.ObserveDuration("completed", time.Second)

	NewCheckoutMetrics(nil).IncStage("x", "y")

	var erp *ERPMetrics
	erp.ObserveCall("m", "f", nil, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
