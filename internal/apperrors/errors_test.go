// internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPredicates(t *testing.T) {
	ve := NewValidationError("quantity", "too much")
	ite := NewIllegalTransitionError("pending", "delivered", "")
	nfe := NewNotFoundError("crop")
	te := NewTransportError("load crop", errors.New("connection refused"))

	assert.True(t, IsValidation(ve))
	assert.True(t, IsIllegalTransition(ite))
	assert.True(t, IsNotFound(nfe))
	assert.True(t, IsTransport(te))

	// Each predicate matches only its own type.
	assert.False(t, IsValidation(ite))
	assert.False(t, IsIllegalTransition(ve))
	assert.False(t, IsNotFound(te))
	assert.False(t, IsTransport(nfe))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("placing order: %w", NewValidationError("offered_price", "below minimum"))
	assert.True(t, IsValidation(wrapped))

	var ve *ValidationError
	require.ErrorAs(t, wrapped, &ve)
	assert.Equal(t, "offered_price", ve.Field)
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	te := NewTransportError("load order", cause)

	assert.ErrorIs(t, te, cause)
	assert.Contains(t, te.Error(), "load order")
}

func TestIllegalTransitionMessage(t *testing.T) {
	bare := NewIllegalTransitionError("pending", "delivered", "")
	assert.Equal(t, "illegal transition pending -> delivered", bare.Error())

	withReason := NewIllegalTransitionError("delivered", "pending", "order is in a terminal status")
	assert.Contains(t, withReason.Error(), "terminal")
}
