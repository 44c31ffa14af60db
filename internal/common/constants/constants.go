package constants

import "time"

const (
	ServerReadHeaderTimeout = 5 * time.Second
	ServerReadTimeout       = 15 * time.Second
	ServerWriteTimeout      = 15 * time.Second
	ServerIdleTimeout       = 60 * time.Second

	DefaultMaxRequestSize = int64(64 * 1024)

	DBPoolMetricsInterval = 30 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond   = 0.2
	RateLimitLoginBurst               = 3
	RateLimitConfirmRequestsPerSecond = 1.0
	RateLimitConfirmBurst             = 5
	RateLimitGeneralRequestsPerSecond = 10.0
	RateLimitGeneralBurst             = 20

	// ConfirmPath is the fixed verification route suffix appended to the
	// request origin when building the OTP callback URL.
	ConfirmPath = "/auth/confirm"

	DefaultSessionCookieName = "tl_session"

	TraceIDKey = "trace_id"
)
