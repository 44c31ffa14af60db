package web

import (
	"net/http"
	"strings"

	"github.com/todolite/todolite/internal/common/constants"
)

// callbackURL builds the absolute URL the auth service embeds in the
// OTP email. It is derived from the incoming request's own origin so
// the same build works in every deployment environment; PUBLIC_BASE_URL
// overrides it for setups behind rewriting proxies.
func callbackURL(r *http.Request, publicBaseURL string) string {
	return requestOrigin(r, publicBaseURL) + constants.ConfirmPath
}

func requestOrigin(r *http.Request, override string) string {
	if override != "" {
		return strings.TrimRight(override, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}

	return scheme + "://" + host
}
