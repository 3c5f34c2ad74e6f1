// Package apperrors separates transient failures (worth a relay retry) from
// everything else, which the webhook boundary swallows.
package apperrors

import (
	"errors"
	"net"
	"strings"

	"lead-inbox-be/pkg/rowstore"
)

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable by the upstream relay.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err should surface as a retryable failure:
// explicit marks, network timeouts/resets, and 5xx or rate-limit answers
// from the row store.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var marked *transientError
	if errors.As(err, &marked) {
		return true
	}

	var status *rowstore.StatusError
	if errors.As(err, &status) {
		return status.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "rate limit")
}
