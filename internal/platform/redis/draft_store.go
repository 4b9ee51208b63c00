package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "memorybook:draft:"

// DraftStore implements store.DraftStore on Redis.
type DraftStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewDraftStore creates a DraftStore whose entries expire ttl after the last
// save.
func NewDraftStore(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *DraftStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DraftStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_draft_store")),
	}
}

var _ store.DraftStore = (*DraftStore)(nil)

func draftKey(bookID uuid.UUID) string {
	return draftKeyPrefix + bookID.String()
}

// Get implements store.DraftStore.Get.
func (s *DraftStore) Get(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	raw, err := s.client.Get(ctx, draftKey(bookID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrDraftNotFound
		}
		return nil, store.NewStoreError("draft", "get", "redis read failed", err)
	}

	var book domain.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("corrupt draft snapshot",
			slog.String("book_id", bookID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: draft %s: %v", store.ErrInvalidEntity, bookID, err)
	}
	return &book, nil
}

// Save implements store.DraftStore.Save.
func (s *DraftStore) Save(ctx context.Context, book *domain.Book) error {
	if book == nil {
		return fmt.Errorf("%w: nil book", store.ErrInvalidEntity)
	}

	raw, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", book.ID, err)
	}

	if err := s.client.Set(ctx, draftKey(book.ID), raw, s.ttl).Err(); err != nil {
		return store.NewStoreError("draft", "save", "redis write failed", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("draft saved",
		slog.String("book_id", book.ID.String()),
		slog.Int("pages", len(book.Pages)),
		slog.Duration("ttl", s.ttl))
	return nil
}

// Delete implements store.DraftStore.Delete.
func (s *DraftStore) Delete(ctx context.Context, bookID uuid.UUID) error {
	if err := s.client.Del(ctx, draftKey(bookID)).Err(); err != nil {
		return store.NewStoreError("draft", "delete", "redis delete failed", err)
	}
	return nil
}
