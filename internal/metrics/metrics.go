package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Chat metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_connections_active",
			Help: "Currently connected websocket clients",
		},
	)

	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total messages appended to history",
		},
		[]string{"author"}, // "user" or "ai"
	)

	BroadcastEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_broadcast_events_total",
			Help: "Outbound events fanned out to clients",
		},
		[]string{"event"},
	)

	RateLimitedMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_rate_limited_messages_total",
			Help: "Inbound events dropped by the per-connection rate limit",
		},
	)

	// AI assist metrics
	AICompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_ai_completions_total",
			Help: "AI assist replies by outcome",
		},
		[]string{"outcome"}, // "success" or "fallback"
	)

	AICompletionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_ai_completion_duration_seconds",
			Help:    "Completion provider call latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	AITriggersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_ai_triggers_dropped_total",
			Help: "AI mentions dropped because the assist queue was full",
		},
	)
)
