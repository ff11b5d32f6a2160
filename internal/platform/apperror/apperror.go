package apperror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies an error for logging and HTTP status mapping.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindUpstream            Kind = "upstream"
	KindTimeout             Kind = "timeout"
	KindInvalidUpstreamData Kind = "invalid_upstream_data"
	KindConfiguration       Kind = "configuration"
	KindInternal            Kind = "internal"
)

// Error is the application error carried from services to handlers.
// Message is safe to return to clients; Err keeps the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a client input error.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates an error for a lookup that returned no candidates.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConfigurationError creates an error for a missing or invalid setting.
func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// NewInvalidUpstreamDataError wraps a response whose shape could not be used.
func NewInvalidUpstreamDataError(message string, err error) *Error {
	return &Error{Kind: KindInvalidUpstreamData, Message: message, Err: err}
}

// NewUpstreamError wraps a failed call to a third-party API. Deadline and
// network timeouts are reported with KindTimeout.
func NewUpstreamError(message string, err error) *Error {
	kind := KindUpstream
	if IsTimeout(err) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsTimeout reports whether err came from an exceeded deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
