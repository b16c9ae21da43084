// Package metrics provides Prometheus metrics for shellassist.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collaborator outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shellassist_commands_total",
			Help: "Commands submitted, by command name (delegated for unrecognized input)",
		},
		[]string{"command"},
	)

	collaboratorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shellassist_collaborator_requests_total",
			Help: "Suggestion requests sent to the language model, by outcome",
		},
		[]string{"outcome"},
	)

	collaboratorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shellassist_collaborator_duration_seconds",
			Help:    "Time spent waiting for a suggestion",
			Buckets: prometheus.DefBuckets,
		},
	)

	busyRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shellassist_busy_rejections_total",
			Help: "Submissions rejected because a command was still in flight",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shellassist_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shellassist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// RecordCommand counts one submitted command.
func RecordCommand(name string) {
	commandsTotal.WithLabelValues(name).Inc()
}

// RecordCollaborator records one suggestion request.
func RecordCollaborator(outcome string, d time.Duration) {
	collaboratorRequestsTotal.WithLabelValues(outcome).Inc()
	collaboratorDuration.Observe(d.Seconds())
}

// RecordBusyRejection counts a submission refused by the in-flight guard.
func RecordBusyRejection() {
	busyRejectionsTotal.Inc()
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
