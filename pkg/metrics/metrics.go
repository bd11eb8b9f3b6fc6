// Package metrics holds the prometheus collectors exported on /metrics.
// Every constructor accepts a nil registerer and then returns a no-op recorder.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// HTTPMetrics counts and times API requests by chi route pattern.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// BackendMetrics times calls to the REST backend by logical operation.
type BackendMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	m := &BackendMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_calls_total",
			Help:      "Calls made to the REST backend, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_call_duration_seconds",
			Help:      "REST backend call latency, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.calls, m.duration)
	return m
}

// Observe records one call; outcome is "ok", "not_found" or "error".
func (m *BackendMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil || m.calls == nil {
		return
	}
	operation = normalizeLabel(operation)
	m.calls.WithLabelValues(operation, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// CommerceMetrics tracks checkout submissions and cart stock rejections.
type CommerceMetrics struct {
	checkouts      *prometheus.CounterVec
	cartRejections *prometheus.CounterVec
}

func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	m := &CommerceMetrics{
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_submissions_total",
			Help:      "Order submissions, by result.",
		}, []string{"result"}),
		cartRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_rejections_total",
			Help:      "Cart mutations rejected with a warning, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.checkouts, m.cartRejections)
	return m
}

func (m *CommerceMetrics) CheckoutSubmitted(success bool) {
	if m == nil || m.checkouts == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.checkouts.WithLabelValues(result).Inc()
}

func (m *CommerceMetrics) CartRejected(reason string) {
	if m == nil || m.cartRejections == nil {
		return
	}
	m.cartRejections.WithLabelValues(normalizeLabel(reason)).Inc()
}
