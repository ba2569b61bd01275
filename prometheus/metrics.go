package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Store operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Chain metrics
	ChainOperationsCounter   *prometheus.CounterVec
	ValidationFailureCounter *prometheus.CounterVec
	SlugFinalizeCounter      *prometheus.CounterVec
)

// InitMetrics registers the service metrics on reg using the given name prefix
func InitMetrics(prefix string, reg prometheus.Registerer) {
	factory := promauto.With(reg)

	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of record store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ChainOperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of chain operations",
		},
		[]string{"operation", "outcome"},
	)

	ValidationFailureCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_validation_failures_total",
			Help: "Total number of rejected chain payloads by failure kind",
		},
		[]string{"kind"},
	)

	SlugFinalizeCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_slug_finalize_total",
			Help: "Slug finalize attempts after insert by result",
		},
		[]string{"result"},
	)
}

// TrackDBOperation returns a function that records the duration of a store operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordChainOperation increments the counter for chain operations
func RecordChainOperation(operation, outcome string) {
	if ChainOperationsCounter == nil {
		return
	}
	ChainOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordValidationFailure increments the counter for rejected payloads
func RecordValidationFailure(kind string) {
	if ValidationFailureCounter == nil {
		return
	}
	ValidationFailureCounter.WithLabelValues(kind).Inc()
}

// RecordSlugFinalize increments the slug finalize counter; result is one of
// ok, retried or compensated.
func RecordSlugFinalize(result string) {
	if SlugFinalizeCounter == nil {
		return
	}
	SlugFinalizeCounter.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records one served HTTP request
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
