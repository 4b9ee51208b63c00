package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookEvent(t *testing.T) {
	bookID := uuid.New()
	subjectID := uuid.New()

	event, err := NewBookEvent(TypeBookCurated, bookID, subjectID, CuratedPayload{Period: "2024-07", Pages: 5})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeBookCurated, event.Type)
	assert.Equal(t, bookID, event.BookID)
	assert.Equal(t, subjectID, event.SubjectID)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var payload CuratedPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, CuratedPayload{Period: "2024-07", Pages: 5}, payload)
}

func TestNewBookEventRejectsUnencodablePayload(t *testing.T) {
	_, err := NewBookEvent(TypeBookGenerated, uuid.New(), uuid.New(), make(chan int))
	assert.Error(t, err)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *BookEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *BookEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	called := 0
	expectedErr := errors.New("handler error")
	h := HandlerFunc(func(context.Context, *BookEvent) error {
		called++
		return expectedErr
	})

	err := h.HandleEvent(context.Background(), &BookEvent{})
	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 1, called)
}
