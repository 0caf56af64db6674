// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests.
	// Labels: method, route (chi pattern), status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futurama_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "futurama_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// CallbackJobs counts callback jobs by outcome:
	// "delivered", "failed", "rejected" (breaker open), "dropped" (shutdown).
	CallbackJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futurama_callback_jobs_total",
			Help: "Total number of callback jobs by outcome",
		},
		[]string{"kind", "outcome"},
	)

	// CallbackQueued is the number of callbacks waiting for their due time.
	CallbackQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "futurama_callback_pending",
			Help: "Callbacks accepted but not yet delivered",
		},
	)

	// SSEStreams is the number of open notification streams.
	SSEStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "futurama_sse_streams",
			Help: "Open server-sent event streams",
		},
	)

	// SecretMessageReads counts secret message reads split by first/repeat.
	SecretMessageReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "futurama_secret_message_reads_total",
			Help: "Secret message reads",
		},
		[]string{"read"},
	)
)
