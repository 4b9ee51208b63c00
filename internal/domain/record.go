package domain

import "strings"

// RecordType identifies the kind of journal entry a record holds.
type RecordType string

// Possible record type values
const (
	RecordTypePhoto RecordType = "photo"
	RecordTypeVideo RecordType = "video"
	RecordTypeText  RecordType = "text"
	RecordTypeVoice RecordType = "voice"
)

// Record is a single timestamped journal entry supplied by the record store.
// The engine reads records but never mutates or persists them.
//
// Date is a calendar date string in YYYY-MM-DD form. Optional text fields use
// the empty string for "absent".
type Record struct {
	ID                string     `json:"id"`
	Type              RecordType `json:"type"`
	Date              string     `json:"date"`
	MediaRefs         []string   `json:"media_refs,omitempty"`
	Caption           string     `json:"caption,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
	DerivedLabels     []string   `json:"derived_labels,omitempty"`
	LinkedMilestoneID string     `json:"linked_milestone_id,omitempty"`
}

// IsPhotoWithMedia reports whether the record is a photo entry with at least
// one media reference. Only such records can become photo or milestone pages.
func (r Record) IsPhotoWithMedia() bool {
	return r.Type == RecordTypePhoto && len(r.MediaRefs) > 0
}

// HasLinkedMilestone reports whether the record is attached to a milestone.
func (r Record) HasLinkedMilestone() bool {
	return r.LinkedMilestoneID != ""
}

// HasCaption reports whether the caption has content after trimming whitespace.
func (r Record) HasCaption() bool {
	return strings.TrimSpace(r.Caption) != ""
}

// HasLabels reports whether the record carries any user tags or derived labels.
func (r Record) HasLabels() bool {
	return len(r.Tags) > 0 || len(r.DerivedLabels) > 0
}

// PrimaryMediaRef returns the first media reference, or "" when there is none.
func (r Record) PrimaryMediaRef() string {
	if len(r.MediaRefs) == 0 {
		return ""
	}
	return r.MediaRefs[0]
}

// Milestone is a recorded life event supplied by the milestone store.
type Milestone struct {
	ID              string `json:"id"`
	IsCompleted     bool   `json:"is_completed"`
	EventDate       string `json:"event_date"`
	CelebrationDate string `json:"celebration_date,omitempty"`
	CustomTitle     string `json:"custom_title,omitempty"`
}

// AnchorDate returns the date used to pair the milestone with photos: the
// celebration date when one is recorded, otherwise the event date.
func (m Milestone) AnchorDate() string {
	if m.CelebrationDate != "" {
		return m.CelebrationDate
	}
	return m.EventDate
}

// Profile holds the subject details used for cover and title text.
type Profile struct {
	DisplayName string `json:"display_name,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
}
