package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
)

// DraftStore persists snapshots of books being edited so a session survives
// restarts. Drafts may expire.
type DraftStore interface {
	// Get returns ErrDraftNotFound if no draft is stored for the id.
	Get(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)

	// Save stores a snapshot of the book, replacing any previous one and
	// refreshing its expiry.
	Save(ctx context.Context, book *domain.Book) error

	// Delete removes the draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, bookID uuid.UUID) error
}
