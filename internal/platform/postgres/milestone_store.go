package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/store"
)

// PostgresMilestoneStore implements the store.MilestoneStore interface.
type PostgresMilestoneStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMilestoneStore creates a new PostgreSQL implementation of the MilestoneStore interface.
func NewPostgresMilestoneStore(db store.DBTX, logger *slog.Logger) *PostgresMilestoneStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMilestoneStore{
		db:     db,
		logger: logger.With(slog.String("component", "milestone_store")),
	}
}

var _ store.MilestoneStore = (*PostgresMilestoneStore)(nil)

// ListBySubject implements store.MilestoneStore.ListBySubject.
func (s *PostgresMilestoneStore) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]domain.Milestone, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, is_completed, to_char(event_date, 'YYYY-MM-DD'),
		       to_char(celebration_date, 'YYYY-MM-DD'), custom_title
		FROM milestones
		WHERE subject_id = $1
		ORDER BY event_date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		log.Error("failed to query milestones",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	milestones := make([]domain.Milestone, 0)
	for rows.Next() {
		var (
			m           domain.Milestone
			celebration sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.IsCompleted, &m.EventDate, &celebration, &m.CustomTitle); err != nil {
			log.Error("failed to scan milestone row",
				slog.String("error", err.Error()),
				slog.String("subject_id", subjectID.String()))
			return nil, fmt.Errorf("%w: milestone row: %v", store.ErrInvalidEntity, err)
		}
		m.CelebrationDate = celebration.String
		milestones = append(milestones, m)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed milestones",
		slog.String("subject_id", subjectID.String()),
		slog.Int("count", len(milestones)))
	return milestones, nil
}
