package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/store"
)

// PostgresRecordStore implements the store.RecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRecordStore creates a new PostgreSQL implementation of the RecordStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresRecordStore(db store.DBTX, logger *slog.Logger) *PostgresRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "record_store")),
	}
}

// Ensure PostgresRecordStore implements store.RecordStore interface
var _ store.RecordStore = (*PostgresRecordStore)(nil)

// ListBySubject implements store.RecordStore.ListBySubject.
// Records are ordered by date, then id, so callers see a stable order.
func (s *PostgresRecordStore) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]domain.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, to_char(recorded_on, 'YYYY-MM-DD'), media_refs, caption,
		       tags, derived_labels, linked_milestone_id
		FROM records
		WHERE subject_id = $1
		ORDER BY recorded_on ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		log.Error("failed to query records",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	// pgtype.Map is not safe for concurrent use, so each call gets its own.
	typeMap := pgtype.NewMap()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var (
			r          domain.Record
			recordType string
			linked     sql.NullString
		)
		if err := rows.Scan(
			&r.ID,
			&recordType,
			&r.Date,
			typeMap.SQLScanner(&r.MediaRefs),
			&r.Caption,
			typeMap.SQLScanner(&r.Tags),
			typeMap.SQLScanner(&r.DerivedLabels),
			&linked,
		); err != nil {
			log.Error("failed to scan record row",
				slog.String("error", err.Error()),
				slog.String("subject_id", subjectID.String()))
			return nil, fmt.Errorf("%w: record row: %v", store.ErrInvalidEntity, err)
		}
		r.Type = domain.RecordType(recordType)
		r.LinkedMilestoneID = linked.String
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating record rows",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return nil, MapError(err)
	}

	log.Debug("listed records",
		slog.String("subject_id", subjectID.String()),
		slog.Int("count", len(records)))
	return records, nil
}
