package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OTPEmailsRequestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_emails_requested_total",
			Help: "Total number of one-time-passcode emails requested from the auth service",
		},
		[]string{"outcome"},
	)

	OTPVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "Total number of one-time-passcode verification attempts",
		},
		[]string{"outcome"},
	)

	SessionResolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_resolves_total",
			Help: "Total number of per-request session resolutions",
		},
		[]string{"outcome"},
	)

	SignOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sign_outs_total",
			Help: "Total number of sign-out requests forwarded to the auth service",
		},
	)

	AuthServiceRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_service_request_duration_seconds",
			Help:    "Duration of requests to the external auth service in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
)
