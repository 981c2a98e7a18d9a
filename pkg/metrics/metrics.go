// Package metrics exposes Prometheus counters for page operations and the
// admin HTTP host.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Operation results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultInvalid = "invalid"
	ResultBusy    = "busy"
)

var latencyBuckets = []float64{
	0.001, 0.002, 0.005,
	0.01, 0.02, 0.05,
	0.1, 0.2, 0.5,
	1, 2, 5, 10,
}

type collectors struct {
	operations      *prometheus.CounterVec
	operationTime   *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpRequestTime *prometheus.HistogramVec
}

var singleton = sync.OnceValue(func() *collectors {
	return &collectors{
		operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formpage",
			Subsystem: "page",
			Name:      "operations_total",
			Help:      "Page operations broken down by page, operation and result.",
		}, []string{"page", "operation", "result"}),
		operationTime: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "formpage",
			Subsystem: "page",
			Name:      "operation_seconds",
			Help:      "Latency of backend calls made by pages.",
			Buckets:   latencyBuckets,
		}, []string{"page", "operation"}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formpage",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Admin host requests broken down by route and status class.",
		}, []string{"route", "result"}),
		httpRequestTime: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "formpage",
			Subsystem: "http",
			Name:      "latency_seconds",
			Help:      "Latency of admin host requests.",
			Buckets:   latencyBuckets,
		}, []string{"route", "result"}),
	}
})

// ObserveOperation records one page operation. A zero duration skips the
// latency histogram, e.g. for validation failures that never hit the API.
func ObserveOperation(page, operation, result string, elapsed time.Duration) {
	c := singleton()
	c.operations.WithLabelValues(page, operation, result).Inc()
	if elapsed > 0 {
		c.operationTime.WithLabelValues(page, operation).Observe(elapsed.Seconds())
	}
}

// ObserveRequest records one HTTP request by route template and status.
func ObserveRequest(route string, status int, elapsed time.Duration) {
	result := "2xx"
	switch {
	case status >= 500:
		result = "5xx"
	case status >= 400:
		result = "4xx"
	case status >= 300:
		result = "3xx"
	}
	c := singleton()
	c.httpRequests.WithLabelValues(route, result).Inc()
	c.httpRequestTime.WithLabelValues(route, result).Observe(elapsed.Seconds())
}

// OperationCount reads the operation counter; intended for tests.
func OperationCount(page, operation, result string) float64 {
	return testutil.ToFloat64(singleton().operations.WithLabelValues(page, operation, result))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
