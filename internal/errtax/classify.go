package errtax

import (
	"context"
	"errors"
	"net"
	"strings"
)

// TransientError marks an error a capability adapter may retry.
type TransientError struct {
	Err        error
	StatusCode int
	Message    string
}

func (e *TransientError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "transient error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err     error
	Message string
}

func (e *PermanentError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "permanent error: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error { return e.Err }

// IsTransient reports whether err should be retried by a capability
// adapter (never by the DSL's own Task Executor).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	var permanent *PermanentError
	if errors.As(err, &permanent) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || isConnRefused(err)
	}
	return isConnRefused(err)
}

func isConnRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset")
}

// ToError maps a generic capability error into a taxonomy Error,
// classifying Timeout vs TaskFailure/ToolFailure by way of kind.
func ToError(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return New(KindTimeout, "deadline_exceeded", err.Error())
	}
	return New(kind, "execution_failed", err.Error())
}
