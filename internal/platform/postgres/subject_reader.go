package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/store"
)

// PostgresSubjectReader loads a subject's profile, records and milestones
// inside one read-only repeatable-read transaction so all three come from the
// same snapshot.
type PostgresSubjectReader struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSubjectReader creates a SubjectReader over db.
func NewPostgresSubjectReader(db *sql.DB, logger *slog.Logger) *PostgresSubjectReader {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubjectReader{
		db:     db,
		logger: logger.With(slog.String("component", "subject_reader")),
	}
}

var _ store.SubjectReader = (*PostgresSubjectReader)(nil)

// LoadSubject implements store.SubjectReader.LoadSubject.
func (r *PostgresSubjectReader) LoadSubject(
	ctx context.Context,
	subjectID uuid.UUID,
) (store.Subject, error) {
	var subject store.Subject

	err := store.RunInTransaction(ctx, r.db, store.SnapshotTxOptions, func(ctx context.Context, tx *sql.Tx) error {
		profile, err := NewPostgresProfileStore(tx, r.logger).GetProfile(ctx, subjectID)
		switch {
		case errors.Is(err, store.ErrProfileNotFound):
			// A subject without a profile still gets a book with default titles.
		case err != nil:
			return fmt.Errorf("failed to load profile: %w", err)
		default:
			subject.Profile = profile
		}

		records, err := NewPostgresRecordStore(tx, r.logger).ListBySubject(ctx, subjectID)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		subject.Records = records

		milestones, err := NewPostgresMilestoneStore(tx, r.logger).ListBySubject(ctx, subjectID)
		if err != nil {
			return fmt.Errorf("failed to load milestones: %w", err)
		}
		subject.Milestones = milestones

		return nil
	})
	if err != nil {
		return store.Subject{}, err
	}

	return subject, nil
}
