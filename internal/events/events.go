package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Book event types.
const (
	TypeBookGenerated    = "book.generated"
	TypeBookCurated      = "book.curated"
	TypeBookExported     = "book.exported"
	TypeBookExportFailed = "book.export_failed"
)

// BookEvent records something that happened to a book. It carries ids and a
// small JSON payload, never the book itself.
type BookEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	BookID    uuid.UUID `json:"book_id"`
	SubjectID uuid.UUID `json:"subject_id"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// GeneratedPayload accompanies book.generated.
type GeneratedPayload struct {
	Pages int    `json:"pages"`
	Error string `json:"error,omitempty"`
}

// CuratedPayload accompanies book.curated.
type CuratedPayload struct {
	Period string `json:"period"`
	Pages  int    `json:"pages"`
}

// ExportedPayload accompanies book.exported.
type ExportedPayload struct {
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
}

// ExportFailedPayload accompanies book.export_failed.
type ExportFailedPayload struct {
	Reason string `json:"reason"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *BookEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewBookEvent creates a new BookEvent with the specified type and payload.
func NewBookEvent(eventType string, bookID, subjectID uuid.UUID, payload interface{}) (*BookEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &BookEvent{
		ID:        uuid.New(),
		Type:      eventType,
		BookID:    bookID,
		SubjectID: subjectID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *BookEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *BookEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *BookEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *BookEvent) error {
	return f(ctx, event)
}
