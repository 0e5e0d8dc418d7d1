// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AttendanceUpserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook",
		Name:      "attendance_upserts_total",
		Help:      "Attendance records written, by resulting status.",
	}, []string{"status"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook",
		Name:      "store_errors_total",
		Help:      "Failed store operations, by error code.",
	}, []string{"kind"})

	QueuePublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rollbook",
		Name:      "queue_publish_failures_total",
		Help:      "Change events that could not be published.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook",
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method, route and status code.",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rollbook",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// StatusLabel maps the empty status to a readable label value.
func StatusLabel(status string) string {
	if status == "" {
		return "unset"
	}
	return status
}
