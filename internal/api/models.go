package api

import (
	"time"

	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/export"
	"github.com/phrazzld/memorybook/internal/theme"
)

// CurateRequest defines the payload for curating a book to one month.
type CurateRequest struct {
	Year  int `json:"year"  validate:"required,gte=1900,lte=9999"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

// AddPageRequest defines the payload for appending a page. An empty type
// adds a blank page.
type AddPageRequest struct {
	Type     string `json:"type"      validate:"omitempty,oneof=photo milestone blank"`
	MediaRef string `json:"media_ref" validate:"omitempty,max=2048"`
	Caption  string `json:"caption"   validate:"max=2000"`
	Date     string `json:"date"      validate:"omitempty,datetime=2006-01-02"`
	Title    string `json:"title"     validate:"max=200"`
}

// ReorderRequest moves the page at index From to index To. Pointers let a
// zero index be told apart from a missing one.
type ReorderRequest struct {
	From *int `json:"from" validate:"required,gte=0"`
	To   *int `json:"to"   validate:"required,gte=0"`
}

// CaptionRequest replaces a page caption. An empty caption clears it.
type CaptionRequest struct {
	Caption string `json:"caption" validate:"max=2000"`
}

// CoverRequest is a partial cover update; omitted fields are left alone.
type CoverRequest struct {
	PhotoRef       *string `json:"photo_ref"        validate:"omitempty,max=2048"`
	Title          *string `json:"title"            validate:"omitempty,max=200"`
	SubjectName    *string `json:"subject_name"     validate:"omitempty,max=200"`
	DateRangeLabel *string `json:"date_range_label" validate:"omitempty,max=200"`
	ColorThemeID   *string `json:"color_theme_id"   validate:"omitempty,min=1,max=64"`
}

// LayoutRequest selects a layout template.
type LayoutRequest struct {
	LayoutID string `json:"layout_id" validate:"required,max=64"`
}

// BookResponse is the client view of a book.
type BookResponse struct {
	ID               string        `json:"id"`
	SubjectID        string        `json:"subject_id"`
	Pages            []domain.Page `json:"pages"`
	PageCount        int           `json:"page_count"`
	Cover            domain.Cover  `json:"cover"`
	LayoutTemplateID string        `json:"layout_template_id"`
	Generating       bool          `json:"generating"`
	Exporting        bool          `json:"exporting"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// GenerateErrorResponse reports a generation that failed part way. The book
// is still usable and is returned with whatever pages were assembled.
type GenerateErrorResponse struct {
	Error   string       `json:"error"`
	TraceID string       `json:"trace_id,omitempty"`
	Book    BookResponse `json:"book"`
}

// ExportResponse describes a finished or refused export.
type ExportResponse struct {
	Status   string `json:"status"`
	Title    string `json:"title,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// ThemesResponse lists the selectable layouts and cover color themes.
type ThemesResponse struct {
	Layouts     []theme.LayoutTemplate `json:"layouts"`
	ColorThemes []theme.ColorTheme     `json:"color_themes"`
}

// toPage converts the request into a domain page.
func (req AddPageRequest) toPage() domain.Page {
	return domain.Page{
		Type:     domain.PageType(req.Type),
		MediaRef: req.MediaRef,
		Caption:  req.Caption,
		Date:     req.Date,
		Title:    req.Title,
	}
}

// toUpdate converts the request into a domain cover update.
func (req CoverRequest) toUpdate() domain.CoverUpdate {
	return domain.CoverUpdate{
		PhotoRef:       req.PhotoRef,
		Title:          req.Title,
		SubjectName:    req.SubjectName,
		DateRangeLabel: req.DateRangeLabel,
		ColorThemeID:   req.ColorThemeID,
	}
}

// bookToResponse converts a domain.Book to a BookResponse
func bookToResponse(book *domain.Book) BookResponse {
	pages := book.Pages
	if pages == nil {
		pages = []domain.Page{}
	}
	return BookResponse{
		ID:               book.ID.String(),
		SubjectID:        book.SubjectID.String(),
		Pages:            pages,
		PageCount:        len(pages),
		Cover:            book.Cover,
		LayoutTemplateID: book.LayoutTemplateID,
		Generating:       book.Generating,
		Exporting:        book.Exporting,
		CreatedAt:        book.CreatedAt,
		UpdatedAt:        book.UpdatedAt,
	}
}

// exportToResponse converts an export.ExportResult to an ExportResponse
func exportToResponse(result export.ExportResult) ExportResponse {
	return ExportResponse{
		Status:   string(result.Status),
		Title:    result.Title,
		FileName: result.FileName,
		Size:     result.Size,
	}
}
