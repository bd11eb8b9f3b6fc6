package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCronJobMetrics(reg)
	job := "order_status_poll"
	metrics.ObserveDuration(job, 250*time.Millisecond)
	metrics.IncSuccess(job)
	metrics.IncFailure(job)
	metrics.IncSkipped(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefront_job_success_total", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "storefront_job_failure_total", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "storefront_job_skipped_total", "job", job); err != nil {
		t.Fatalf("fetch skipped: %v", err)
	} else if got != 1 {
		t.Fatalf("expected skipped=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "storefront_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	var nilMetrics *CronJobMetrics
	nilMetrics.IncSuccess("x")
	NewCronJobMetrics(nil).IncFailure("x")
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Millisecond)
	NewBackendMetrics(nil).Observe("list_inventory", "ok", time.Millisecond)
	NewCommerceMetrics(nil).CheckoutSubmitted(true)
}

func TestDomainMetricsExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := NewHTTPMetrics(reg)
	backend := NewBackendMetrics(reg)
	commerce := NewCommerceMetrics(reg)

	httpMetrics.Observe("GET", "/api/v1/cart", 200, 10*time.Millisecond)
	backend.Observe("create_order", "error", 20*time.Millisecond)
	commerce.CheckoutSubmitted(false)
	commerce.CartRejected("insufficient_stock")
	commerce.CartRejected("insufficient_stock")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_http_requests_total", "route", "/api/v1/cart"); err != nil || got != 1 {
		t.Fatalf("unexpected http counter %f err %v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_backend_calls_total", "outcome", "error"); err != nil || got != 1 {
		t.Fatalf("unexpected backend counter %f err %v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_checkout_submissions_total", "result", "failure"); err != nil || got != 1 {
		t.Fatalf("unexpected checkout counter %f err %v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_cart_rejections_total", "reason", "insufficient_stock"); err != nil || got != 2 {
		t.Fatalf("unexpected rejection counter %f err %v", got, err)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
