// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_dashboard_api_requests_total",
			Help: "Total number of backend API requests by outcome",
		},
		[]string{"method", "endpoint", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scan_dashboard_api_request_duration_seconds",
			Help:    "Duration of backend API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_dashboard_token_refresh_total",
			Help: "Token refresh attempts by result",
		},
		[]string{"result"}, // success|failure|no_refresh_token|shared
	)

	AssistantQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_dashboard_assistant_queries_total",
			Help: "Assistant queries by classified intent",
		},
		[]string{"intent"},
	)

	SnapshotFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scan_dashboard_snapshot_failures_total",
			Help: "Assistant queries answered without a snapshot because loading failed",
		},
	)
)

// Request outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeServerError = "server_error"
	OutcomeNetwork     = "network_error"
	OutcomeTimeout     = "timeout"
	OutcomeParseError  = "parse_error"
	OutcomeAuthFailed  = "auth_failed"
)
