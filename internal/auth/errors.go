package auth

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned by the resolver when the request carries no
// verified identity. Handlers turn it into a 303 to the landing page.
var ErrNoSession = errors.New("no session")

// ServiceError carries a failure reported by the external auth service.
// Status is the collaborator's own HTTP status and is surfaced verbatim
// to the caller (never masked, never retried).
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth service: %s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("auth service: %s (%d)", e.Message, e.Status)
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
