package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	derived := ErrInsufficientTokens.WithDetail("need 5 tokens")

	assert.Empty(t, ErrInsufficientTokens.Detail)
	assert.Equal(t, "need 5 tokens", derived.Detail)
	assert.Equal(t, ErrInsufficientTokens.Code, derived.Code)
}

func TestWithErrorDoesNotMutateSentinel(t *testing.T) {
	cause := errors.New("balance too low")
	derived := ErrInsufficientTokens.WithError(cause)

	assert.Nil(t, ErrInsufficientTokens.Err)
	assert.ErrorIs(t, derived, cause)
}

func TestErrorsIsMatchesDerivedCopies(t *testing.T) {
	derived := ErrCompletionUnavailable.WithDetail("no provider configured")
	wrapped := fmt.Errorf("request failed: %w", derived)

	assert.ErrorIs(t, derived, ErrCompletionUnavailable)
	assert.ErrorIs(t, wrapped, ErrCompletionUnavailable)
	assert.NotErrorIs(t, derived, ErrInsufficientTokens)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "query failed")

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeDatabaseError, appErr.Code)
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, 400},
		{CodeUnauthorized, 401},
		{CodeForbidden, 403},
		{CodeModelNotFound, 404},
		{CodeConflict, 409},
		{CodeInsufficientTokens, 402},
		{CodeTooManyRequests, 429},
		{CodeCompletionUnavailable, 503},
		{CodeDatabaseError, 500},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatus, string(tt.code))
	}
}
