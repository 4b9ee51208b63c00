package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/slug"
)

// Dependencies holds the orchestrator's collaborators.
type Dependencies struct {
	Populator   Populator
	Renderer    Renderer
	Converter   Converter
	Sink        Sink
	Entitlement Entitlement
}

func (d Dependencies) validate() error {
	switch {
	case d.Populator == nil:
		return fmt.Errorf("%w: populator", ErrMissingDependency)
	case d.Renderer == nil:
		return fmt.Errorf("%w: renderer", ErrMissingDependency)
	case d.Converter == nil:
		return fmt.Errorf("%w: converter", ErrMissingDependency)
	case d.Sink == nil:
		return fmt.Errorf("%w: sink", ErrMissingDependency)
	case d.Entitlement == nil:
		return fmt.Errorf("%w: entitlement", ErrMissingDependency)
	}
	return nil
}

// Orchestrator runs generation and export for one book. The two are tracked
// independently (idle -> generating -> idle, idle -> exporting -> idle) and a
// second call of either while it is busy is rejected.
//
// bookMu guards the book's fields. Callers that edit the same book must hold
// it; the orchestrator holds it only while reading or writing the book, never
// across conversion or sharing.
type Orchestrator struct {
	book   *domain.Book
	bookMu sync.Locker
	deps   Dependencies
	logger *slog.Logger

	mu         sync.Mutex
	generating bool
	exporting  bool
}

// NewOrchestrator binds an orchestrator to book. A nil bookMu gives the
// orchestrator a private lock.
func NewOrchestrator(
	book *domain.Book,
	bookMu sync.Locker,
	deps Dependencies,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if book == nil {
		return nil, ErrNilBook
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if bookMu == nil {
		bookMu = &sync.Mutex{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		book:   book,
		bookMu: bookMu,
		deps:   deps,
		logger: logger.With(
			slog.String("component", "export_orchestrator"),
			slog.String("book_id", book.ID.String()),
		),
	}, nil
}

// Generating reports whether a generation is running.
func (o *Orchestrator) Generating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}

// Exporting reports whether an export is running.
func (o *Orchestrator) Exporting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.exporting
}

// tryBegin flips *flag to true unless it already is.
func (o *Orchestrator) tryBegin(flag *bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (o *Orchestrator) end(flag *bool) {
	o.mu.Lock()
	*flag = false
	o.mu.Unlock()
}

// GeneratePhotoBook replaces the book's pages with the default layout.
//
// The book always returns to idle. If the populator fails, the book keeps
// whatever pages it returned (possibly none) and the error is returned for
// the caller to log or report; it is not a reason to leave the book stuck.
func (o *Orchestrator) GeneratePhotoBook(ctx context.Context) error {
	if !o.tryBegin(&o.generating) {
		return ErrGenerationInProgress
	}
	defer o.end(&o.generating)

	log := logger.FromContextOrDefault(ctx, o.logger)

	o.bookMu.Lock()
	o.book.Generating = true
	subjectID := o.book.SubjectID
	o.bookMu.Unlock()

	defer func() {
		o.bookMu.Lock()
		o.book.Generating = false
		o.bookMu.Unlock()
	}()

	pages, err := o.deps.Populator.Populate(ctx, subjectID)

	o.bookMu.Lock()
	o.book.ReplacePages(pages)
	o.bookMu.Unlock()

	if err != nil {
		log.Warn("photo book generation failed",
			slog.String("error", err.Error()),
			slog.Int("pages_kept", len(pages)))
		return fmt.Errorf("failed to generate photo book: %w", err)
	}

	log.Info("photo book generated", slog.Int("pages", len(pages)))
	return nil
}

// ExportPDF renders the book, converts it and hands the file to the sink.
//
// Entitlement is asked first on every call; a refusal returns ExportRefused
// with a nil error and touches nothing. An empty book returns ExportSkipped.
// Converter and sink failures are returned wrapped. The exporting flag is
// cleared on every exit path.
func (o *Orchestrator) ExportPDF(ctx context.Context) (ExportResult, error) {
	if !o.tryBegin(&o.exporting) {
		return ExportResult{}, ErrExportInProgress
	}
	defer o.end(&o.exporting)

	log := logger.FromContextOrDefault(ctx, o.logger)

	if !o.deps.Entitlement.CanExport(ctx) {
		log.Info("pdf export refused: no entitlement")
		return ExportResult{Status: ExportRefused}, nil
	}

	o.bookMu.Lock()
	if len(o.book.Pages) == 0 {
		o.bookMu.Unlock()
		log.Info("pdf export skipped: book has no pages")
		return ExportResult{Status: ExportSkipped}, nil
	}

	o.book.Exporting = true
	defer func() {
		o.bookMu.Lock()
		o.book.Exporting = false
		o.bookMu.Unlock()
	}()

	html, err := o.deps.Renderer.Render(o.book)
	bookID := o.book.ID
	title := DialogTitle(o.book.Cover.SubjectName)
	o.bookMu.Unlock()

	if err != nil {
		log.Error("failed to render book for export", slog.String("error", err.Error()))
		return ExportResult{}, fmt.Errorf("failed to render book: %w", err)
	}

	name := slug.From(title)
	artifact, err := o.deps.Converter.Convert(ctx, html, name)
	if err != nil {
		log.Error("pdf conversion failed", slog.String("error", err.Error()))
		return ExportResult{}, fmt.Errorf("failed to convert book to pdf: %w", err)
	}

	opts := ShareOptions{
		BookID:      bookID,
		MIMEType:    PDFMimeType,
		DialogTitle: title,
		FileName:    name + ".pdf",
	}
	if err := o.deps.Sink.Share(ctx, artifact, opts); err != nil {
		log.Error("failed to share exported pdf",
			slog.String("error", err.Error()),
			slog.String("path", artifact.Path))
		o.discard(ctx, artifact, log)
		return ExportResult{}, fmt.Errorf("failed to share exported pdf: %w", err)
	}

	log.Info("pdf exported",
		slog.String("file_name", opts.FileName),
		slog.Int64("size", artifact.Size))

	return ExportResult{
		Status:   ExportExported,
		Title:    title,
		FileName: opts.FileName,
		Size:     artifact.Size,
	}, nil
}

// discard asks the converter to drop an artifact the sink did not take.
// Failures are logged only; the share error is what the caller sees.
func (o *Orchestrator) discard(ctx context.Context, artifact Artifact, log *slog.Logger) {
	d, ok := o.deps.Converter.(Discarder)
	if !ok {
		return
	}
	if err := d.Discard(ctx, artifact); err != nil {
		log.Warn("failed to discard unshared pdf",
			slog.String("error", err.Error()),
			slog.String("path", artifact.Path))
	}
}
