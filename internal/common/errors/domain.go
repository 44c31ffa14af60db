package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	TraceID() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithTraceID(traceID string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	traceID  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) TraceID() string {
	return e.traceID
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	clone := *e
	clone.cause = cause
	return &clone
}

func (e *domainError) WithTraceID(traceID string) DomainError {
	clone := *e
	clone.traceID = traceID
	return &clone
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidConfig = NewDomainError(
		"INVALID_CONFIG",
		CategoryValidation,
		http.StatusInternalServerError,
		"invalid configuration",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"AUTH_JWT_SECRET must be at least 32 bytes",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)

	ErrEmptyUUID = NewDomainError(
		"EMPTY_UUID",
		CategoryValidation,
		http.StatusBadRequest,
		"uuid cannot be empty",
	)

	ErrMissingTodoID = NewDomainError(
		"MISSING_TODO_ID",
		CategoryValidation,
		http.StatusBadRequest,
		"todo id is required",
	)

	ErrInvalidTodoID = NewDomainError(
		"INVALID_TODO_ID",
		CategoryValidation,
		http.StatusBadRequest,
		"todo id is not a valid uuid",
	)

	ErrTodoNotFound = NewDomainError(
		"TODO_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"todo not found",
	)

	ErrTodoListFailed = NewDomainError(
		"TODO_LIST_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to list todos",
	)

	ErrTodoCreateFailed = NewDomainError(
		"TODO_CREATE_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to create todo",
	)

	ErrTodoUpdateFailed = NewDomainError(
		"TODO_UPDATE_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to update todo",
	)

	ErrTodoDeleteFailed = NewDomainError(
		"TODO_DELETE_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to delete todo",
	)

	ErrProfileLoadFailed = NewDomainError(
		"PROFILE_LOAD_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to load profile",
	)

	ErrProfileSaveFailed = NewDomainError(
		"PROFILE_SAVE_FAILED",
		CategoryInternal,
		http.StatusInternalServerError,
		"failed to save profile",
	)

	ErrSessionLookupFailed = NewDomainError(
		"SESSION_LOOKUP_FAILED",
		CategoryExternal,
		http.StatusInternalServerError,
		"failed to resolve session",
	)

	ErrAuthServiceUnavailable = NewDomainError(
		"AUTH_SERVICE_UNAVAILABLE",
		CategoryExternal,
		http.StatusBadGateway,
		"auth service unavailable",
	)
)
