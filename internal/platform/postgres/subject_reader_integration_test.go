//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/platform/postgres"
	"github.com/phrazzld/memorybook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to MEMORYBOOK_TEST_DB_URL and applies the migrations.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("MEMORYBOOK_TEST_DB_URL")
	if dbURL == "" {
		t.Skip("MEMORYBOOK_TEST_DB_URL not set")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(context.Background(), db, postgres.MigrateUp, nil))
	return db
}

func seedSubject(t *testing.T, db *sql.DB, subjectID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	prefix := subjectID.String()[:8]

	_, err := db.ExecContext(ctx,
		`INSERT INTO profiles (subject_id, display_name, birth_date) VALUES ($1, 'Ada', '2024-03-02')`,
		subjectID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO milestones (id, subject_id, is_completed, event_date, celebration_date, custom_title)
		VALUES ($1, $2, TRUE, '2024-06-10', NULL, 'First steps'),
		       ($3, $2, FALSE, '2024-09-01', '2024-09-03', 'First word')`,
		prefix+"-m1", subjectID, prefix+"-m2")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO records (id, subject_id, type, recorded_on, media_refs, caption, tags, derived_labels, linked_milestone_id)
		VALUES ($1, $2, 'photo', '2024-06-11', ARRAY['https://media.example/a.jpg'], 'Walking!', ARRAY['park'], ARRAY['outdoor','smile'], $3),
		       ($4, $2, 'text',  '2024-06-01', '{}', 'note', '{}', '{}', NULL)`,
		prefix+"-r1", subjectID, prefix+"-m1", prefix+"-r0")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO entitlements (subject_id, kind) VALUES ($1, $2)`,
		subjectID, postgres.ExportEntitlementKind)
	require.NoError(t, err)
}

func TestPostgresSubjectReader_LoadSubject(t *testing.T) {
	db := openTestDB(t)
	subjectID := uuid.New()
	seedSubject(t, db, subjectID)
	prefix := subjectID.String()[:8]

	subject, err := postgres.NewPostgresSubjectReader(db, nil).LoadSubject(context.Background(), subjectID)
	require.NoError(t, err)

	assert.Equal(t, domain.Profile{DisplayName: "Ada", BirthDate: "2024-03-02"}, subject.Profile)

	require.Len(t, subject.Records, 2)
	assert.Equal(t, prefix+"-r0", subject.Records[0].ID, "records come back in date order")
	photo := subject.Records[1]
	assert.Equal(t, domain.RecordTypePhoto, photo.Type)
	assert.Equal(t, "2024-06-11", photo.Date)
	assert.Equal(t, []string{"https://media.example/a.jpg"}, photo.MediaRefs)
	assert.Equal(t, []string{"outdoor", "smile"}, photo.DerivedLabels)
	assert.Equal(t, prefix+"-m1", photo.LinkedMilestoneID)
	assert.Empty(t, subject.Records[0].MediaRefs)

	require.Len(t, subject.Milestones, 2)
	assert.True(t, subject.Milestones[0].IsCompleted)
	assert.Empty(t, subject.Milestones[0].CelebrationDate)
	assert.Equal(t, "2024-09-03", subject.Milestones[1].CelebrationDate)
}

func TestPostgresSubjectReader_UnknownSubject(t *testing.T) {
	db := openTestDB(t)

	subject, err := postgres.NewPostgresSubjectReader(db, nil).LoadSubject(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{}, subject.Profile)
	assert.Empty(t, subject.Records)
	assert.Empty(t, subject.Milestones)

	_, err = postgres.NewPostgresProfileStore(db, nil).GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestPostgresEntitlementStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	entitlements := postgres.NewPostgresEntitlementStore(db, nil)

	granted := uuid.New()
	seedSubject(t, db, granted)
	ok, err := entitlements.HasExportEntitlement(ctx, granted)
	require.NoError(t, err)
	assert.True(t, ok)

	revoked := uuid.New()
	_, err = db.ExecContext(ctx,
		`INSERT INTO entitlements (subject_id, kind, revoked_at) VALUES ($1, $2, NOW())`,
		revoked, postgres.ExportEntitlementKind)
	require.NoError(t, err)
	ok, err = entitlements.HasExportEntitlement(ctx, revoked)
	require.NoError(t, err)
	assert.False(t, ok)

	expired := uuid.New()
	_, err = db.ExecContext(ctx,
		`INSERT INTO entitlements (subject_id, kind, expires_at) VALUES ($1, $2, NOW() - INTERVAL '1 day')`,
		expired, postgres.ExportEntitlementKind)
	require.NoError(t, err)
	ok, err = entitlements.HasExportEntitlement(ctx, expired)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = entitlements.HasExportEntitlement(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
