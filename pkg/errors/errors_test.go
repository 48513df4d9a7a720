package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{"not found", NotFound("product", "PRD-1001"), "NOT_FOUND", http.StatusNotFound, ErrNotFound},
		{"invalid input", InvalidInput("quantity must be at least 1"), "INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput},
		{"unauthorized", Unauthorized("missing session id"), "UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", Forbidden("access restricted by IP allowlist"), "FORBIDDEN", http.StatusForbidden, ErrForbidden},
		{"conflict", Conflict("cart changed concurrently"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"media type", UnsupportedMediaType("Content-Type must be application/json"), "UNSUPPORTED_MEDIA_TYPE", http.StatusUnsupportedMediaType, ErrInvalidInput},
		{"rate limited", TooManyRequests("too many requests"), "RATE_LIMITED", http.StatusTooManyRequests, ErrRateLimited},
		{"unavailable", ServiceUnavailable("session store unavailable"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestNotFound_NamesResource(t *testing.T) {
	err := NotFound("product", "PRD-1001")
	assert.Equal(t, "product with id PRD-1001 not found", err.Message)
	assert.Equal(t, "NOT_FOUND: product with id PRD-1001 not found: resource not found", err.Error())
}

func TestInternal_HidesCause(t *testing.T) {
	cause := fmt.Errorf("redis: connection refused")
	err := Internal(cause)

	assert.Equal(t, "an internal error occurred", err.Message)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_ErrorWithoutCause(t *testing.T) {
	err := &AppError{Code: "CONFLICT", Message: "wishlist changed"}
	assert.Equal(t, "CONFLICT: wishlist changed", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestAppError_FoundThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("add to cart: %w", Conflict("cart changed concurrently"))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrServiceUnavail, http.StatusServiceUnavailable},
		{fmt.Errorf("load session: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("save session: %w", ErrServiceUnavail), http.StatusServiceUnavailable},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}
