package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrors(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(ErrProfileNotFound))
	assert.True(t, IsNotFoundError(ErrDraftNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("loading book: %w", ErrDraftNotFound)))
	assert.False(t, IsNotFoundError(ErrInvalidEntity))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, errors.Is(ErrProfileNotFound, ErrDraftNotFound))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("draft", "save", "failed to write snapshot", cause)

	assert.Equal(t, "save operation on draft failed: failed to write snapshot: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("record", "list", "bad row", nil)
	assert.Equal(t, "list operation on record failed: bad row", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
