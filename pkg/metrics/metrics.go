// Package metrics provides Prometheus metrics for the marigold service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marigold"

var (
	// HTTPRequestsTotal tracks served requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks request handling time
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// SearchResultsTotal tracks how many rows each search returned
	SearchResultsTotal = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "results",
			Help:      "Number of rows returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10},
		},
		[]string{"search"},
	)

	// SearchSkippedTotal counts searches skipped because no filter was given
	SearchSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "skipped_total",
			Help:      "Total number of searches skipped for lack of filters",
		},
		[]string{"search"},
	)

	// DatabaseQueryDuration tracks database query duration
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation", "status"},
	)

	// FormSubmissionsTotal tracks client form submissions by outcome
	FormSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Total number of form submissions by outcome",
		},
		[]string{"form", "outcome"},
	)
)

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordQuery records one database statement
func RecordQuery(operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordSearch records the row count of a completed search
func RecordSearch(search string, rows int) {
	SearchResultsTotal.WithLabelValues(search).Observe(float64(rows))
}

// RecordSkippedSearch counts a search skipped because no filter was given
func RecordSkippedSearch(search string) {
	SearchSkippedTotal.WithLabelValues(search).Inc()
}

// RecordFormSubmission counts one form submission by outcome
func RecordFormSubmission(form, outcome string) {
	FormSubmissionsTotal.WithLabelValues(form, outcome).Inc()
}
