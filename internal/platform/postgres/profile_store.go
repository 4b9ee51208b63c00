package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// GetProfile implements store.ProfileStore.GetProfile.
// Returns store.ErrProfileNotFound if the subject has no profile.
func (s *PostgresProfileStore) GetProfile(
	ctx context.Context,
	subjectID uuid.UUID,
) (domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT display_name, to_char(birth_date, 'YYYY-MM-DD')
		FROM profiles
		WHERE subject_id = $1
	`

	var (
		profile   domain.Profile
		birthDate sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, subjectID).Scan(&profile.DisplayName, &birthDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found", slog.String("subject_id", subjectID.String()))
			return domain.Profile{}, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return domain.Profile{}, MapError(err)
	}

	profile.BirthDate = birthDate.String
	return profile, nil
}
