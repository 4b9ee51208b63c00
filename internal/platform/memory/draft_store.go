// Package memory provides an in-process store.DraftStore for local runs and
// tests when no Redis is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/store"
)

type draftEntry struct {
	book      *domain.Book
	expiresAt time.Time
}

// DraftStore keeps cloned book snapshots in a map. Entries expire ttl after
// their last save; a zero ttl keeps them forever.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]draftEntry
	ttl    time.Duration
	now    func() time.Time
}

// NewDraftStore creates an empty in-memory draft store.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		drafts: make(map[uuid.UUID]draftEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

var _ store.DraftStore = (*DraftStore)(nil)

// Get implements store.DraftStore.Get. The returned book is a copy.
func (s *DraftStore) Get(_ context.Context, bookID uuid.UUID) (*domain.Book, error) {
	s.mu.RLock()
	entry, ok := s.drafts[bookID]
	s.mu.RUnlock()

	if !ok || s.expired(entry) {
		return nil, store.ErrDraftNotFound
	}
	return entry.book.Clone(), nil
}

// Save implements store.DraftStore.Save.
func (s *DraftStore) Save(_ context.Context, book *domain.Book) error {
	if book == nil {
		return store.ErrInvalidEntity
	}

	entry := draftEntry{book: book.Clone()}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.drafts[book.ID] = entry
	return nil
}

// Delete implements store.DraftStore.Delete.
func (s *DraftStore) Delete(_ context.Context, bookID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, bookID)
	return nil
}

func (s *DraftStore) expired(e draftEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

// sweep drops expired entries. Callers hold the write lock.
func (s *DraftStore) sweep() {
	for id, e := range s.drafts {
		if s.expired(e) {
			delete(s.drafts, id)
		}
	}
}
