package domain

import (
	"errors"

	"github.com/google/uuid"
)

// PageType identifies the section shape a page renders as.
type PageType string

// Possible page type values
const (
	PageTypeTitle     PageType = "title"
	PageTypePhoto     PageType = "photo"
	PageTypeMilestone PageType = "milestone"
	PageTypeBlank     PageType = "blank"
)

// Page validation errors
var (
	ErrInvalidPageType   = errors.New("invalid page type")
	ErrTitlePageSource   = errors.New("title page cannot reference a source record")
	ErrPageMediaRequired = errors.New("photo and milestone pages from records require a media reference")

	// ErrTitlePageNotAddable is returned when a caller tries to add a title
	// page. A book's only title page is the one assembly puts at index 0.
	ErrTitlePageNotAddable = errors.New("title pages cannot be added")
)

// Page is one unit of the assembled book. Page order within a Book is the
// rendering order and the document page order.
type Page struct {
	ID                string   `json:"id"`
	Type              PageType `json:"type"`
	SourceRecordID    string   `json:"source_record_id,omitempty"`
	SourceMilestoneID string   `json:"source_milestone_id,omitempty"`
	MediaRef          string   `json:"media_ref,omitempty"`
	Caption           string   `json:"caption,omitempty"`
	Date              string   `json:"date,omitempty"`
	Title             string   `json:"title,omitempty"`
}

// NewPageID returns a fresh identifier for a page that is not derived from a
// source record.
func NewPageID() string {
	return uuid.NewString()
}

// IsValidPageType reports whether t is one of the known page types.
func IsValidPageType(t PageType) bool {
	switch t {
	case PageTypeTitle, PageTypePhoto, PageTypeMilestone, PageTypeBlank:
		return true
	default:
		return false
	}
}

// Validate checks the structural page invariants.
func (p Page) Validate() error {
	if !IsValidPageType(p.Type) {
		return ErrInvalidPageType
	}
	if p.Type == PageTypeTitle && p.SourceRecordID != "" {
		return ErrTitlePageSource
	}
	// Manually added pages may start without media; record-sourced ones may not.
	if (p.Type == PageTypePhoto || p.Type == PageTypeMilestone) &&
		p.SourceRecordID != "" && p.MediaRef == "" {
		return ErrPageMediaRequired
	}
	return nil
}
