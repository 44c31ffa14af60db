package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_requests_total",
			Help: "Total number of web requests",
		},
		[]string{"method", "path"},
	)

	WebRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "web_requests_in_flight",
			Help: "Number of web requests currently being processed",
		},
	)

	WebRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "web_request_duration_seconds",
			Help:    "Duration of web requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
