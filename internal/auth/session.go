package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/todolite/todolite/internal/common/logger"
	"github.com/todolite/todolite/internal/observability/metrics"
)

// Session is the verified identity attached to a request.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// UserGetter is the slice of the auth client the resolver needs.
type UserGetter interface {
	GetUser(ctx context.Context, accessToken string) (User, error)
}

// Resolver turns an inbound request into a Session or ErrNoSession. It
// is invoked once per request and keeps no state between requests: a
// session revoked at the auth service is never observed valid on the
// next request.
type Resolver struct {
	users      UserGetter
	secret     []byte
	cookieName string
	log        *logger.Logger
}

func NewResolver(users UserGetter, jwtSecret, cookieName string, log *logger.Logger) *Resolver {
	return &Resolver{
		users:      users,
		secret:     []byte(jwtSecret),
		cookieName: cookieName,
		log:        log,
	}
}

// Resolve reads the session cookie, locally checks the access token's
// signature and expiry, then confirms liveness with the auth service.
func (r *Resolver) Resolve(req *http.Request) (Session, error) {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil || cookie.Value == "" {
		metrics.SessionResolvesTotal.WithLabelValues("no_session").Inc()
		return Session{}, ErrNoSession
	}

	// Cheap local rejection before the network roundtrip: a token that
	// was never signed by the auth service gets no lookup.
	if _, err := parseAccessToken(cookie.Value, r.secret); err != nil {
		r.log.WithFields(req.Context(), logger.Fields{
			"action": "session_token_rejected",
		}).Debugf("session token rejected locally: %v", err)
		metrics.SessionResolvesTotal.WithLabelValues("no_session").Inc()
		return Session{}, ErrNoSession
	}

	user, err := r.users.GetUser(req.Context(), cookie.Value)
	if err != nil {
		if se, ok := AsServiceError(err); ok && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden) {
			metrics.SessionResolvesTotal.WithLabelValues("no_session").Inc()
			return Session{}, ErrNoSession
		}
		metrics.SessionResolvesTotal.WithLabelValues("error").Inc()
		return Session{}, err
	}

	metrics.SessionResolvesTotal.WithLabelValues("ok").Inc()
	return Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: cookie.Value,
	}, nil
}

type tokenClaims struct {
	UserID string
	Email  string
}

func parseAccessToken(tokenString string, secret []byte) (tokenClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return tokenClaims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return tokenClaims{}, errors.New("missing sub claim")
	}

	email, _ := mapClaims["email"].(string)

	return tokenClaims{
		UserID: sub,
		Email:  email,
	}, nil
}
