package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomreserve_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roomreserve_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	bookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomreserve_bookings_created_total",
		Help: "Count of created bookings by initial status",
	}, []string{"status"})

	bookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomreserve_booking_status_transitions_total",
		Help: "Count of booking status transitions by outcome",
	}, []string{"from", "to", "result"})

	authFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomreserve_auth_failures_total",
		Help: "Count of failed authentication attempts by reason",
	}, []string{"reason"})

	reportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomreserve_report_runs_total",
		Help: "Count of report worker runs by result",
	}, []string{"result"})

	healthScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomreserve_health_score",
		Help: "Latest business health score (0-100) from the report worker",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveBookingCreated increments the created-booking counter.
func ObserveBookingCreated(status string) {
	bookingsCreated.WithLabelValues(status).Inc()
}

// ObserveBookingTransition records a status transition attempt.
func ObserveBookingTransition(from, to, result string) {
	bookingTransitions.WithLabelValues(from, to, result).Inc()
}

// ObserveAuthFailure records a failed login or token validation.
func ObserveAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

// ObserveReportRun records a report worker run.
func ObserveReportRun(result string) {
	reportRuns.WithLabelValues(result).Inc()
}

// SetHealthScore publishes the latest business health score.
func SetHealthScore(score int) {
	healthScore.Set(float64(score))
}
