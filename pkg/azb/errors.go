// Semantic error taxonomy for blob operations. Classification is a pure
// function of the HTTP status; no retry logic lives here.
package azb

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// AuthenticationError means the service rejected the request's signature or
// credentials. Never retried internally.
type AuthenticationError struct {
	Status int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication rejected by service (status %d)", e.Status)
}

// NotFoundError means the target container or blob does not exist.
type NotFoundError struct {
	Status int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container or blob not found (status %d)", e.Status)
}

// ConflictError means a precondition or concurrent-modification failure.
type ConflictError struct {
	Status int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting or preconditioned operation failed (status %d)", e.Status)
}

// ServerError is a remote-side (5xx) failure. The caller decides whether to
// retry; the client never does.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("service error (status %d): %s", e.Status, e.Body)
}

// UnknownError is any unclassified non-2xx response. Carries the raw status
// and body for diagnostics.
type UnknownError struct {
	Status int
	Body   string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unexpected response (status %d): %s", e.Status, e.Body)
}

// InvalidParameterError is a local validation failure raised before any
// request is sent.
type InvalidParameterError struct {
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "invalid parameter: " + e.Reason
}

// InvalidParameterf builds an InvalidParameterError from a format string.
func InvalidParameterf(format string, args ...interface{}) error {
	return &InvalidParameterError{Reason: fmt.Sprintf(format, args...)}
}

// Classify maps a response status to a semantic error, or nil for 2xx. The
// body is only retained where it aids diagnostics (5xx and unknown statuses).
func Classify(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthenticationError{Status: status}
	case status == http.StatusNotFound:
		return &NotFoundError{Status: status}
	case status == http.StatusConflict || status == http.StatusPreconditionFailed:
		return &ConflictError{Status: status}
	case status >= 500 && status < 600:
		return &ServerError{Status: status, Body: string(body)}
	default:
		return &UnknownError{Status: status, Body: string(body)}
	}
}

// IsNotFound reports whether err (possibly wrapped) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAuthentication reports whether err (possibly wrapped) is an
// AuthenticationError.
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsInvalidParameter reports whether err (possibly wrapped) is an
// InvalidParameterError.
func IsInvalidParameter(err error) bool {
	var ip *InvalidParameterError
	return errors.As(err, &ip)
}
