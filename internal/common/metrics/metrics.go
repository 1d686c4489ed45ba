// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// AssistantAnswers counts answered questions by the path the pipeline took.
	AssistantAnswers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_answers_total",
			Help: "Total number of assistant answers by pipeline path",
		},
		[]string{"path"},
	)

	// AssistantGenerations counts SQL generation results by status.
	AssistantGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_sql_generations_total",
			Help: "Total number of SQL generation attempts by status",
		},
		[]string{"status"},
	)

	AssistantNarrationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_narration_fallbacks_total",
			Help: "Total number of narration calls answered with a fixed message",
		},
		[]string{"reason"},
	)

	AssistantRowsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_query_rows",
			Help:    "Rows returned by generated queries",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	SessionCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_results_total",
			Help: "Session cache lookups by result",
		},
		[]string{"result"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Approval notifications by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)
