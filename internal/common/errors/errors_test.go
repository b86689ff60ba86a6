package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNetError struct{ timeout bool }

func (e fakeNetError) Error() string   { return "fake net error" }
func (e fakeNetError) Timeout() bool   { return e.timeout }
func (e fakeNetError) Temporary() bool { return false }

var _ net.Error = fakeNetError{}

func TestStandardError_UnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      *StandardError
		sentinel error
	}{
		{"network", NewNetworkError(fmt.Errorf("dial tcp: refused")), ErrNetwork},
		{"timeout", NewTimeoutError(time.Second, context.DeadlineExceeded), ErrTimeout},
		{"auth", NewAuthenticationFailedError("refresh rejected", nil), ErrAuthenticationFailed},
		{"server", NewServerError(502, "bad gateway"), ErrServer},
		{"parse", NewParseError(fmt.Errorf("unexpected EOF")), ErrParse},
		{"validation", NewValidationError("email: required"), ErrValidation},
		{"session", NewSessionNotFoundError("empty"), ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, stderrors.Is(wrapped, tt.sentinel))

			stdErr, ok := As(wrapped)
			require.True(t, ok)
			assert.Equal(t, tt.err.Code, stdErr.Code)
			assert.NotEmpty(t, stdErr.Message)
		})
	}
}

func TestStandardError_KeepsCause(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewTimeoutError(2*time.Second, cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Message, "2s")
	assert.True(t, err.Retryable)
}

func TestFromTransport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"context deadline", fmt.Errorf("Get: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"net timeout", fakeNetError{timeout: true}, ErrCodeTimeout},
		{"refused", fakeNetError{timeout: false}, ErrCodeNetwork},
		{"plain", stderrors.New("boom"), ErrCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromTransport(tt.err, time.Second)
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
		})
	}

	assert.Nil(t, FromTransport(nil, time.Second))
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	std := NewParseError(stderrors.New("bad json"))
	assert.Same(t, std, Normalize(fmt.Errorf("wrap: %w", std)))

	generic := Normalize(stderrors.New("something odd"))
	assert.Equal(t, ErrCodeInternal, generic.Code)
	assert.False(t, generic.Retryable)
}

func TestServerError_RetryableOnlyFor5xx(t *testing.T) {
	assert.True(t, NewServerError(503, "unavailable").Retryable)
	assert.False(t, NewServerError(422, "unprocessable").Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "TRANSPORT", GetErrorCategory(ErrCodeTimeout))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeAuthenticationFailed))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeSessionNotFound))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "UPSTREAM", GetErrorCategory(ErrCodeParse))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
