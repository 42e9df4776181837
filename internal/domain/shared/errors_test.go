package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := Conflict("DUPLICATE_BILLING_PERIOD", "exists")

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, Conflict("DUPLICATE_BILLING_PERIOD", "other message")))
	assert.False(t, errors.Is(err, Conflict("BILL_ALREADY_ISSUED", "")))

	wrapped := fmt.Errorf("create: %w", err)
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestKindOf_Untyped(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestWrapStorageError(t *testing.T) {
	assert.NoError(t, WrapStorageError("find", "Bill", 1, nil))

	cause := errors.New("connection refused")
	err := WrapStorageError("find", "Bill", "42", cause)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "find Bill 42 failed")

	notFound := NotFound("Bill", "42")
	assert.Same(t, notFound, WrapStorageError("find", "Bill", "42", notFound))
}
