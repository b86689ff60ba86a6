// internal/common/errors/handler.go
package errors

import (
	"context"
	stderrors "errors"
	"net"
	"net/url"
	"time"
)

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), err)
}

// FromTransport classifies an error returned by http.Client.Do.
// Deadline expiry of the request context and net timeouts map to REQUEST_TIMEOUT;
// everything else is a NETWORK_ERROR.
func FromTransport(err error, timeout time.Duration) *StandardError {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(timeout, err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(timeout, err)
	}
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) && urlErr.Timeout() {
		return NewTimeoutError(timeout, err)
	}
	return NewNetworkError(err)
}
