package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the counter and submission flow
var (
	CounterIncrementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ldr_counter_increments_total",
			Help: "Total number of successful counter increments",
		},
	)

	LedgerDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ldr_ledger_denials_total",
			Help: "Total number of actions denied by the cooldown ledger",
		},
		[]string{"action"},
	)

	VerificationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ldr_verification_failures_total",
			Help: "Total number of failed human verifications by reason",
		},
		[]string{"reason"},
	)

	StoriesAppendedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ldr_stories_appended_total",
			Help: "Total number of stories published",
		},
	)

	BroadcastFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ldr_broadcast_failures_total",
			Help: "Total number of broadcast publishes that failed",
		},
		[]string{"channel"},
	)

	// Standard HTTP metrics - recorded by middleware.WithMetrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// Register registers all metrics with the given registerer
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		CounterIncrementsTotal,
		LedgerDenialsTotal,
		VerificationFailuresTotal,
		StoriesAppendedTotal,
		BroadcastFailuresTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
