package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Book validation errors
var (
	ErrBookIDEmpty        = errors.New("book ID cannot be empty")
	ErrBookSubjectIDEmpty = errors.New("book subject ID cannot be empty")
)

// Cover is the singleton front matter of a book. It is not a Page but always
// renders first.
type Cover struct {
	PhotoRef       string `json:"photo_ref,omitempty"`
	Title          string `json:"title"`
	SubjectName    string `json:"subject_name,omitempty"`
	DateRangeLabel string `json:"date_range_label,omitempty"`
	ColorThemeID   string `json:"color_theme_id"`
}

// CoverUpdate is a partial cover. Nil fields leave the current value alone.
type CoverUpdate struct {
	PhotoRef       *string `json:"photo_ref,omitempty"`
	Title          *string `json:"title,omitempty"`
	SubjectName    *string `json:"subject_name,omitempty"`
	DateRangeLabel *string `json:"date_range_label,omitempty"`
	ColorThemeID   *string `json:"color_theme_id,omitempty"`
}

// Book is the aggregate owned by one editing session: the ordered pages, the
// cover, the layout template, and the in-flight generation/export flags.
//
// Editing methods are total. Unknown page ids and out-of-range indices are
// silent no-ops so a UI racing a regenerate can retry freely.
type Book struct {
	ID               uuid.UUID `json:"id"`
	SubjectID        uuid.UUID `json:"subject_id"`
	Pages            []Page    `json:"pages"`
	Cover            Cover     `json:"cover"`
	LayoutTemplateID string    `json:"layout_template_id"`
	Generating       bool      `json:"generating"`
	Exporting        bool      `json:"exporting"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewBook creates an empty book for the subject using the given layout and
// cover color theme.
func NewBook(subjectID uuid.UUID, layoutID, colorThemeID string) (*Book, error) {
	now := time.Now().UTC()
	book := &Book{
		ID:               uuid.New(),
		SubjectID:        subjectID,
		Pages:            []Page{},
		Cover:            Cover{ColorThemeID: colorThemeID},
		LayoutTemplateID: layoutID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid identity data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrBookIDEmpty
	}
	if b.SubjectID == uuid.Nil {
		return ErrBookSubjectIDEmpty
	}
	return nil
}

// IndexOf returns the index of the page with the given id, or -1.
func (b *Book) IndexOf(pageID string) int {
	for i := range b.Pages {
		if b.Pages[i].ID == pageID {
			return i
		}
	}
	return -1
}

// ReplacePages swaps in a freshly assembled page list.
func (b *Book) ReplacePages(pages []Page) {
	b.Pages = append(make([]Page, 0, len(pages)), pages...)
	b.touch()
}

// Reorder removes the page at from and reinserts it at to.
//
// Title pages are pinned: if either index addresses a title page the call
// does nothing. Out-of-range indices also do nothing.
func (b *Book) Reorder(from, to int) {
	n := len(b.Pages)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	if b.Pages[from].Type == PageTypeTitle || b.Pages[to].Type == PageTypeTitle {
		return
	}

	moved := b.Pages[from]
	pages := append(b.Pages[:from:from], b.Pages[from+1:]...)
	pages = append(pages[:to], append([]Page{moved}, pages[to:]...)...)
	b.Pages = pages
	b.touch()
}

// Remove deletes the page with the given id. Title pages are kept.
func (b *Book) Remove(pageID string) {
	i := b.IndexOf(pageID)
	if i < 0 || b.Pages[i].Type == PageTypeTitle {
		return
	}
	b.Pages = append(b.Pages[:i:i], b.Pages[i+1:]...)
	b.touch()
}

// Add appends a page with a freshly generated id and returns the stored copy.
// A page without a type becomes a blank page.
func (b *Book) Add(page Page) Page {
	page.ID = NewPageID()
	if page.Type == "" {
		page.Type = PageTypeBlank
	}
	b.Pages = append(b.Pages, page)
	b.touch()
	return page
}

// SetCaption replaces the caption of the given page.
func (b *Book) SetCaption(pageID, caption string) {
	i := b.IndexOf(pageID)
	if i < 0 {
		return
	}
	b.Pages[i].Caption = caption
	b.touch()
}

// SetCover shallow-merges the non-nil fields of update into the cover.
func (b *Book) SetCover(update CoverUpdate) {
	if update.PhotoRef != nil {
		b.Cover.PhotoRef = *update.PhotoRef
	}
	if update.Title != nil {
		b.Cover.Title = *update.Title
	}
	if update.SubjectName != nil {
		b.Cover.SubjectName = *update.SubjectName
	}
	if update.DateRangeLabel != nil {
		b.Cover.DateRangeLabel = *update.DateRangeLabel
	}
	if update.ColorThemeID != nil {
		b.Cover.ColorThemeID = *update.ColorThemeID
	}
	b.touch()
}

// SetLayout switches the layout template. The id is not checked here; the
// renderer falls back to the default for unknown ids.
func (b *Book) SetLayout(layoutID string) {
	b.LayoutTemplateID = layoutID
	b.touch()
}

// Clear empties the page list. The cover is untouched.
func (b *Book) Clear() {
	b.Pages = []Page{}
	b.touch()
}

// Clone returns a deep copy of the book so callers can hand out snapshots
// without sharing the page slice.
func (b *Book) Clone() *Book {
	c := *b
	c.Pages = append(make([]Page, 0, len(b.Pages)), b.Pages...)
	return &c
}

func (b *Book) touch() {
	b.UpdatedAt = time.Now().UTC()
}
