package export

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
)

// PDFMimeType is the MIME type suggested to the share sink.
const PDFMimeType = "application/pdf"

// DefaultDialogTitle is used when the subject has no name.
const DefaultDialogTitle = "Memory Book"

// Common errors returned by the export package
var (
	// ErrGenerationInProgress is returned when GeneratePhotoBook is called
	// while a generation for the same book is still running.
	ErrGenerationInProgress = errors.New("photo book generation already in progress")

	// ErrExportInProgress is returned when ExportPDF is called while an export
	// for the same book is still running.
	ErrExportInProgress = errors.New("pdf export already in progress")

	// ErrNilBook is returned when an orchestrator is built without a book.
	ErrNilBook = errors.New("book cannot be nil")

	// ErrMissingDependency is returned when an orchestrator is built without
	// one of its collaborators.
	ErrMissingDependency = errors.New("export dependency missing")
)

// Artifact is the converted document as handed from the converter to the
// sink.
type Artifact struct {
	Path string
	Size int64
}

// ShareOptions carries the hints the sink needs to present the file.
type ShareOptions struct {
	BookID      uuid.UUID
	MIMEType    string
	DialogTitle string
	FileName    string
}

// Populator builds the default page list for a subject. On failure it may
// still return the pages it managed to build.
type Populator interface {
	Populate(ctx context.Context, subjectID uuid.UUID) ([]domain.Page, error)
}

// Renderer turns a book into a markup document.
type Renderer interface {
	Render(book *domain.Book) (string, error)
}

// Converter turns a markup document into a portable document. name is a
// file-name-safe base name without extension.
type Converter interface {
	Convert(ctx context.Context, html, name string) (Artifact, error)
}

// Discarder is implemented by converters whose artifacts are left behind
// when the sink never takes them. Discard must tolerate an artifact that is
// already gone.
type Discarder interface {
	Discard(ctx context.Context, artifact Artifact) error
}

// Sink hands a converted document to whatever saves or shares it.
type Sink interface {
	Share(ctx context.Context, artifact Artifact, opts ShareOptions) error
}

// Entitlement answers whether exporting is currently allowed. It is asked on
// every export and never cached.
type Entitlement interface {
	CanExport(ctx context.Context) bool
}

// EntitlementFunc adapts a function to the Entitlement interface.
type EntitlementFunc func(ctx context.Context) bool

// CanExport implements Entitlement.
func (f EntitlementFunc) CanExport(ctx context.Context) bool {
	return f(ctx)
}

// Always is an Entitlement with a fixed answer.
type Always bool

// CanExport implements Entitlement.
func (a Always) CanExport(context.Context) bool {
	return bool(a)
}

// ExportStatus is the outcome of an export call that did not fail.
type ExportStatus string

// Valid ExportStatus values
const (
	// ExportRefused means the entitlement check said no. Nothing was rendered.
	ExportRefused ExportStatus = "refused"

	// ExportSkipped means the book had no pages. Nothing was rendered.
	ExportSkipped ExportStatus = "skipped"

	// ExportExported means the document was converted and handed to the sink.
	ExportExported ExportStatus = "exported"
)

// ExportResult describes a completed export call.
type ExportResult struct {
	Status   ExportStatus `json:"status"`
	Title    string       `json:"title,omitempty"`
	FileName string       `json:"file_name,omitempty"`
	Size     int64        `json:"size,omitempty"`
}

// DialogTitle returns the share dialog title for a subject name.
func DialogTitle(subjectName string) string {
	if subjectName == "" {
		return DefaultDialogTitle
	}
	return subjectName + "'s " + DefaultDialogTitle
}
