package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/store"
)

// ExportEntitlementKind is the entitlements.kind value that unlocks PDF export.
const ExportEntitlementKind = "pdf_export"

// PostgresEntitlementStore implements the store.EntitlementStore interface.
type PostgresEntitlementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEntitlementStore creates a new PostgreSQL implementation of the EntitlementStore interface.
func NewPostgresEntitlementStore(db store.DBTX, logger *slog.Logger) *PostgresEntitlementStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEntitlementStore{
		db:     db,
		logger: logger.With(slog.String("component", "entitlement_store")),
	}
}

var _ store.EntitlementStore = (*PostgresEntitlementStore)(nil)

// HasExportEntitlement implements store.EntitlementStore.HasExportEntitlement.
// Revoked and expired entitlements do not count.
func (s *PostgresEntitlementStore) HasExportEntitlement(
	ctx context.Context,
	subjectID uuid.UUID,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM entitlements
			WHERE subject_id = $1
			  AND kind = $2
			  AND revoked_at IS NULL
			  AND (expires_at IS NULL OR expires_at > NOW())
		)
	`

	var entitled bool
	if err := s.db.QueryRowContext(ctx, query, subjectID, ExportEntitlementKind).Scan(&entitled); err != nil {
		log.Error("failed to check export entitlement",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return false, MapError(err)
	}

	log.Debug("checked export entitlement",
		slog.String("subject_id", subjectID.String()),
		slog.Bool("entitled", entitled))
	return entitled, nil
}
