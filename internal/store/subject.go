package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
)

// RecordStore reads the captured records of a subject. The book engine never
// writes records.
type RecordStore interface {
	// ListBySubject returns every record for the subject in ascending date
	// order. Returns an empty slice if there are none.
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.Record, error)
}

// MilestoneStore reads the milestones tracked for a subject.
type MilestoneStore interface {
	// ListBySubject returns every milestone for the subject, completed or not.
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.Milestone, error)
}

// ProfileStore reads the subject's profile.
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound if the subject has no profile.
	GetProfile(ctx context.Context, subjectID uuid.UUID) (domain.Profile, error)
}

// EntitlementStore answers whether the owner of a subject may export.
type EntitlementStore interface {
	// HasExportEntitlement reports whether an active export entitlement exists.
	// A missing row is not an error.
	HasExportEntitlement(ctx context.Context, subjectID uuid.UUID) (bool, error)
}

// Subject bundles everything the assembler needs about one subject, read
// together so the pieces are consistent with each other.
type Subject struct {
	Profile    domain.Profile
	Records    []domain.Record
	Milestones []domain.Milestone
}

// SubjectReader loads a Subject in one go.
type SubjectReader interface {
	// LoadSubject returns the subject's profile, records and milestones. A
	// missing profile yields a zero Profile, not an error.
	LoadSubject(ctx context.Context, subjectID uuid.UUID) (Subject, error)
}
