package redis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftKey(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("0b6d5b64-0d3f-4c3a-9a55-1f6f8d5a2a10")
	assert.Equal(t, "memorybook:draft:0b6d5b64-0d3f-4c3a-9a55-1f6f8d5a2a10", draftKey(id))
}

func TestNewClientRejectsInvalidURL(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), "http://not-redis", nil)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestSaveRejectsNilBook(t *testing.T) {
	t.Parallel()

	s := NewDraftStore(nil, 0, nil)
	assert.Error(t, s.Save(context.Background(), nil))
}
