package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("product", "42")

	assert.Equal(t, "product with ID 42 not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("name", "", "must not be empty")

	assert.Equal(t, "validation failed for field name: must not be empty", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidationError_NoField(t *testing.T) {
	err := &ValidationError{Message: "payload too large"}
	assert.Equal(t, "validation failed: payload too large", err.Error())
}

func TestAPIError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &APIError{
		StatusCode: 503,
		Message:    "upstream down",
		Endpoint:   "/api/products",
		Err:        inner,
	}

	assert.Contains(t, err.Error(), "status 503")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestAPIError_ClientStatus(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "missing", Endpoint: "/api/brands"}
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestWrapResource(t *testing.T) {
	require.NoError(t, WrapResource("load", "brand", "b1", nil))

	wrapped := WrapResource("load", "brand", "b1", ErrNotFound)
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, fmt.Sprintf("load brand b1: %v", ErrNotFound), wrapped.Error())
}
