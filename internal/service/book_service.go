package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/assembly"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/events"
	"github.com/phrazzld/memorybook/internal/export"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/store"
	"github.com/phrazzld/memorybook/internal/theme"
)

// BookService defines the operations on memory books.
//
// Every method returning a *domain.Book returns a snapshot; callers may keep
// or modify it without affecting the live book.
type BookService interface {
	// Create starts a new book for the subject, filled with the default
	// layout and a cover derived from the subject's profile and photos.
	Create(ctx context.Context, subjectID uuid.UUID) (*domain.Book, error)

	// Get returns the current state of the book.
	Get(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)

	// Generate rebuilds the default layout from the subject's current data.
	// On failure the book keeps whatever pages were assembled and is returned
	// alongside the error.
	Generate(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)

	// CurateForPeriod replaces the pages with a titled, curated selection of
	// the given month.
	CurateForPeriod(ctx context.Context, bookID uuid.UUID, period domain.Period) (*domain.Book, error)

	// AddPage appends a page and returns it with its assigned id.
	AddPage(ctx context.Context, bookID uuid.UUID, page domain.Page) (domain.Page, error)

	// RemovePage deletes a page. Unknown ids and title pages are left alone.
	RemovePage(ctx context.Context, bookID uuid.UUID, pageID string) (*domain.Book, error)

	// ReorderPage moves the page at index from to index to.
	ReorderPage(ctx context.Context, bookID uuid.UUID, from, to int) (*domain.Book, error)

	// SetCaption replaces one page's caption.
	SetCaption(ctx context.Context, bookID uuid.UUID, pageID, caption string) (*domain.Book, error)

	// UpdateCover merges the non-nil fields into the cover.
	UpdateCover(ctx context.Context, bookID uuid.UUID, update domain.CoverUpdate) (*domain.Book, error)

	// SetLayout switches the layout template.
	SetLayout(ctx context.Context, bookID uuid.UUID, layoutID string) (*domain.Book, error)

	// Clear removes every page. The cover is kept.
	Clear(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)

	// Preview renders the book to HTML without any entitlement check.
	Preview(ctx context.Context, bookID uuid.UUID) (string, error)

	// Export renders, converts and shares the book as a PDF.
	Export(ctx context.Context, bookID uuid.UUID) (export.ExportResult, error)

	// Delete drops the live session and its stored draft.
	Delete(ctx context.Context, bookID uuid.UUID) error
}

// EntitlementSource returns the export entitlement check for a subject.
type EntitlementSource func(subjectID uuid.UUID) export.Entitlement

// StoreEntitlement checks the entitlement store on every export. Store errors
// are logged and treated as no entitlement.
func StoreEntitlement(entitlements store.EntitlementStore, l *slog.Logger) EntitlementSource {
	if l == nil {
		l = slog.Default()
	}
	l = l.With(slog.String("component", "export_entitlement"))

	return func(subjectID uuid.UUID) export.Entitlement {
		return export.EntitlementFunc(func(ctx context.Context) bool {
			ok, err := entitlements.HasExportEntitlement(ctx, subjectID)
			if err != nil {
				logger.FromContextOrDefault(ctx, l).Warn("entitlement lookup failed, refusing export",
					slog.String("error", err.Error()),
					slog.String("subject_id", subjectID.String()))
				return false
			}
			return ok
		})
	}
}

// FixedEntitlement grants or refuses every export.
func FixedEntitlement(allow bool) EntitlementSource {
	return func(uuid.UUID) export.Entitlement {
		return export.Always(allow)
	}
}

// Dependencies holds the collaborators of the book service.
type Dependencies struct {
	Subjects     store.SubjectReader
	Drafts       store.DraftStore
	Assembler    *assembly.Assembler
	Themes       *theme.Registry
	Renderer     export.Renderer
	Converter    export.Converter
	Sink         export.Sink
	Entitlements EntitlementSource
	Events       events.EventEmitter

	// DefaultLayout and DefaultColorTheme seed new books. Empty values fall
	// back to the registry defaults.
	DefaultLayout     string
	DefaultColorTheme string

	// SessionIdleTimeout is how long an untouched live book stays in memory.
	// Zero uses DefaultSessionIdleTimeout.
	SessionIdleTimeout time.Duration
}

// DefaultSessionIdleTimeout bounds how long an idle book stays in memory.
// Evicted books are restored from their draft on the next request.
const DefaultSessionIdleTimeout = 30 * time.Minute

// session is one live book. mu guards book and is shared with orch.
// lastUsed is guarded by the service's mu.
type session struct {
	mu       sync.Mutex
	book     *domain.Book
	orch     *export.Orchestrator
	lastUsed time.Time
}

func (sess *session) busy() bool {
	return sess.orch.Generating() || sess.orch.Exporting()
}

// bookServiceImpl implements the BookService interface
type bookServiceImpl struct {
	deps        Dependencies
	populator   export.Populator
	logger      *slog.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// Ensure bookServiceImpl implements BookService interface
var _ BookService = (*bookServiceImpl)(nil)

// NewBookService creates a new BookService.
// It returns an error if any required dependency is nil.
func NewBookService(deps Dependencies, logger *slog.Logger) (BookService, error) {
	switch {
	case deps.Subjects == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "subject reader cannot be nil"}
	case deps.Drafts == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "draft store cannot be nil"}
	case deps.Assembler == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "assembler cannot be nil"}
	case deps.Themes == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "theme registry cannot be nil"}
	case deps.Renderer == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "renderer cannot be nil"}
	case deps.Converter == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "converter cannot be nil"}
	case deps.Sink == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "share sink cannot be nil"}
	case deps.Entitlements == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "entitlement source cannot be nil"}
	case deps.Events == nil:
		return nil, &BookServiceError{Operation: "create_service", Message: "event emitter cannot be nil"}
	}

	if deps.DefaultLayout == "" || !deps.Themes.HasLayout(deps.DefaultLayout) {
		deps.DefaultLayout = theme.DefaultLayoutID
	}
	if deps.DefaultColorTheme == "" || !deps.Themes.HasColorTheme(deps.DefaultColorTheme) {
		deps.DefaultColorTheme = theme.DefaultColorThemeID
	}

	if deps.SessionIdleTimeout <= 0 {
		deps.SessionIdleTimeout = DefaultSessionIdleTimeout
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &bookServiceImpl{
		deps:        deps,
		populator:   subjectPopulator{subjects: deps.Subjects, assembler: deps.Assembler},
		logger:      logger.With(slog.String("component", "book_service")),
		idleTimeout: deps.SessionIdleTimeout,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*session),
	}, nil
}

// subjectPopulator assembles the default layout from a freshly loaded subject.
type subjectPopulator struct {
	subjects  store.SubjectReader
	assembler *assembly.Assembler
}

// Populate implements export.Populator.
func (p subjectPopulator) Populate(ctx context.Context, subjectID uuid.UUID) ([]domain.Page, error) {
	subject, err := p.subjects.LoadSubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}
	return p.assembler.DefaultPages(subject.Records, subject.Milestones, subject.Profile), nil
}

// newSession binds an orchestrator to book.
func (s *bookServiceImpl) newSession(book *domain.Book) (*session, error) {
	sess := &session{book: book}
	orch, err := export.NewOrchestrator(book, &sess.mu, export.Dependencies{
		Populator:   s.populator,
		Renderer:    s.deps.Renderer,
		Converter:   s.deps.Converter,
		Sink:        s.deps.Sink,
		Entitlement: s.deps.Entitlements(book.SubjectID),
	}, s.logger)
	if err != nil {
		return nil, err
	}
	sess.orch = orch
	return sess, nil
}

// session returns the live session for bookID. The draft store is the
// source of truth: a live session is re-read from its draft on every call
// unless generation or export is running on it, and a session whose draft is
// gone (deleted elsewhere or expired) is dropped.
func (s *bookServiceImpl) session(ctx context.Context, bookID uuid.UUID) (*session, error) {
	now := s.now()

	s.mu.Lock()
	s.evictIdleLocked(ctx, now)
	sess, ok := s.sessions[bookID]
	if ok {
		sess.lastUsed = now
	}
	s.mu.Unlock()

	book, err := s.deps.Drafts.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrDraftNotFound) {
			// A running generation or export saves the book when it ends.
			if ok && sess.busy() {
				return sess, nil
			}
			if ok {
				s.drop(bookID, sess)
				logger.FromContextOrDefault(ctx, s.logger).Debug("dropped book session without a draft",
					slog.String("book_id", bookID.String()))
			}
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	// A draft saved mid-run must not come back busy.
	book.Generating = false
	book.Exporting = false

	if ok {
		// Only a newer draft replaces the live book; an older one is a read
		// that raced with a save from this process.
		sess.mu.Lock()
		if !sess.busy() && book.UpdatedAt.After(sess.book.UpdatedAt) {
			*sess.book = *book
		}
		sess.mu.Unlock()
		return sess, nil
	}

	sess, err = s.newSession(book)
	if err != nil {
		return nil, err
	}
	sess.lastUsed = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[bookID]; ok {
		return existing, nil
	}
	s.sessions[bookID] = sess
	logger.FromContextOrDefault(ctx, s.logger).Debug("restored book session from draft",
		slog.String("book_id", bookID.String()))
	return sess, nil
}

// drop forgets sess if it is still the live session for bookID.
func (s *bookServiceImpl) drop(bookID uuid.UUID, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[bookID] == sess {
		delete(s.sessions, bookID)
	}
}

// evictIdleLocked forgets sessions untouched for longer than the idle
// timeout. Busy sessions are kept. The caller holds s.mu.
func (s *bookServiceImpl) evictIdleLocked(ctx context.Context, now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) <= s.idleTimeout || sess.busy() {
			continue
		}
		delete(s.sessions, id)
		logger.FromContextOrDefault(ctx, s.logger).Debug("evicted idle book session",
			slog.String("book_id", id.String()))
	}
}

// save persists a snapshot of the book. The caller holds sess.mu.
func (s *bookServiceImpl) save(ctx context.Context, sess *session) (*domain.Book, error) {
	snapshot := sess.book.Clone()
	if err := s.deps.Drafts.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return snapshot, nil
}

// mutate applies fn to the live book under its lock and persists the result.
func (s *bookServiceImpl) mutate(
	ctx context.Context,
	operation string,
	bookID uuid.UUID,
	fn func(book *domain.Book) error,
) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", operation),
		slog.String("book_id", bookID.String()),
	)

	sess, err := s.session(ctx, bookID)
	if err != nil {
		if !errors.Is(err, ErrBookNotFound) {
			log.Error("failed to load book session", slog.String("error", err.Error()))
		}
		return nil, NewBookServiceError(operation, "failed to load book", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess.book); err != nil {
		return nil, NewBookServiceError(operation, "invalid edit", err)
	}

	snapshot, err := s.save(ctx, sess)
	if err != nil {
		log.Error("failed to persist book", slog.String("error", err.Error()))
		return nil, NewBookServiceError(operation, "failed to persist book", err)
	}
	return snapshot, nil
}

// emit publishes an event. Handler failures are logged, never returned.
func (s *bookServiceImpl) emit(ctx context.Context, eventType string, book *domain.Book, payload interface{}) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewBookEvent(eventType, book.ID, book.SubjectID, payload)
	if err != nil {
		log.Error("failed to build book event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := s.deps.Events.EmitEvent(ctx, event); err != nil {
		log.Warn("book event handler failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

// Create implements BookService.Create
func (s *bookServiceImpl) Create(ctx context.Context, subjectID uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("subject_id", subjectID.String()),
	)

	book, err := domain.NewBook(subjectID, s.deps.DefaultLayout, s.deps.DefaultColorTheme)
	if err != nil {
		return nil, NewBookServiceError("create", "invalid book", err)
	}

	subject, err := s.deps.Subjects.LoadSubject(ctx, subjectID)
	if err != nil {
		log.Error("failed to load subject", slog.String("error", err.Error()))
		return nil, NewBookServiceError("create", "failed to load subject", err)
	}

	cover := s.deps.Assembler.DefaultCover(subject.Profile, subject.Records)
	cover.ColorThemeID = book.Cover.ColorThemeID
	book.Cover = cover
	book.ReplacePages(s.deps.Assembler.DefaultPages(subject.Records, subject.Milestones, subject.Profile))

	sess, err := s.newSession(book)
	if err != nil {
		log.Error("failed to start book session", slog.String("error", err.Error()))
		return nil, NewBookServiceError("create", "failed to start book session", err)
	}

	sess.mu.Lock()
	snapshot, err := s.save(ctx, sess)
	sess.mu.Unlock()
	if err != nil {
		log.Error("failed to persist new book", slog.String("error", err.Error()))
		return nil, NewBookServiceError("create", "failed to persist book", err)
	}

	s.mu.Lock()
	sess.lastUsed = s.now()
	s.sessions[book.ID] = sess
	s.mu.Unlock()

	log.Info("book created",
		slog.String("book_id", book.ID.String()),
		slog.Int("pages", len(snapshot.Pages)))
	s.emit(ctx, events.TypeBookGenerated, snapshot, events.GeneratedPayload{Pages: len(snapshot.Pages)})

	return snapshot, nil
}

// Get implements BookService.Get
func (s *bookServiceImpl) Get(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	sess, err := s.session(ctx, bookID)
	if err != nil {
		return nil, NewBookServiceError("get", "failed to load book", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.book.Clone(), nil
}

// Generate implements BookService.Generate
func (s *bookServiceImpl) Generate(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("book_id", bookID.String()),
	)

	sess, err := s.session(ctx, bookID)
	if err != nil {
		return nil, NewBookServiceError("generate", "failed to load book", err)
	}

	genErr := sess.orch.GeneratePhotoBook(ctx)
	if errors.Is(genErr, export.ErrGenerationInProgress) {
		return nil, genErr
	}

	sess.mu.Lock()
	snapshot, err := s.save(ctx, sess)
	if err != nil {
		snapshot = sess.book.Clone()
	}
	sess.mu.Unlock()

	payload := events.GeneratedPayload{Pages: len(snapshot.Pages)}
	if genErr != nil {
		payload.Error = genErr.Error()
	}
	s.emit(ctx, events.TypeBookGenerated, snapshot, payload)

	if genErr != nil {
		return snapshot, NewBookServiceError("generate", "photo book generation failed", genErr)
	}
	if err != nil {
		log.Error("failed to persist generated book", slog.String("error", err.Error()))
		return nil, NewBookServiceError("generate", "failed to persist book", err)
	}
	return snapshot, nil
}

// CurateForPeriod implements BookService.CurateForPeriod
func (s *bookServiceImpl) CurateForPeriod(
	ctx context.Context,
	bookID uuid.UUID,
	period domain.Period,
) (*domain.Book, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("book_id", bookID.String()),
		slog.String("period", period.Key()),
	)

	sess, err := s.session(ctx, bookID)
	if err != nil {
		return nil, NewBookServiceError("curate", "failed to load book", err)
	}

	// A running generation would overwrite the curated pages when it lands.
	if sess.orch.Generating() {
		return nil, export.ErrGenerationInProgress
	}

	sess.mu.Lock()
	subjectID := sess.book.SubjectID
	sess.mu.Unlock()

	subject, err := s.deps.Subjects.LoadSubject(ctx, subjectID)
	if err != nil {
		log.Error("failed to load subject", slog.String("error", err.Error()))
		return nil, NewBookServiceError("curate", "failed to load subject", err)
	}
	pages := s.deps.Assembler.PeriodPages(subject.Records, period)

	snapshot, err := s.mutate(ctx, "curate", bookID, func(book *domain.Book) error {
		book.ReplacePages(pages)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("book curated for period", slog.Int("pages", len(snapshot.Pages)))
	s.emit(ctx, events.TypeBookCurated, snapshot, events.CuratedPayload{
		Period: period.Key(),
		Pages:  len(snapshot.Pages),
	})
	return snapshot, nil
}

// AddPage implements BookService.AddPage
func (s *bookServiceImpl) AddPage(ctx context.Context, bookID uuid.UUID, page domain.Page) (domain.Page, error) {
	if page.Type == "" {
		page.Type = domain.PageTypeBlank
	}
	if page.Type == domain.PageTypeTitle {
		return domain.Page{}, domain.ErrTitlePageNotAddable
	}
	if err := page.Validate(); err != nil {
		return domain.Page{}, err
	}

	var added domain.Page
	_, err := s.mutate(ctx, "add_page", bookID, func(book *domain.Book) error {
		added = book.Add(page)
		return nil
	})
	if err != nil {
		return domain.Page{}, err
	}
	return added, nil
}

// RemovePage implements BookService.RemovePage
func (s *bookServiceImpl) RemovePage(ctx context.Context, bookID uuid.UUID, pageID string) (*domain.Book, error) {
	return s.mutate(ctx, "remove_page", bookID, func(book *domain.Book) error {
		book.Remove(pageID)
		return nil
	})
}

// ReorderPage implements BookService.ReorderPage
func (s *bookServiceImpl) ReorderPage(ctx context.Context, bookID uuid.UUID, from, to int) (*domain.Book, error) {
	return s.mutate(ctx, "reorder_page", bookID, func(book *domain.Book) error {
		book.Reorder(from, to)
		return nil
	})
}

// SetCaption implements BookService.SetCaption
func (s *bookServiceImpl) SetCaption(
	ctx context.Context,
	bookID uuid.UUID,
	pageID, caption string,
) (*domain.Book, error) {
	return s.mutate(ctx, "set_caption", bookID, func(book *domain.Book) error {
		book.SetCaption(pageID, caption)
		return nil
	})
}

// UpdateCover implements BookService.UpdateCover
func (s *bookServiceImpl) UpdateCover(
	ctx context.Context,
	bookID uuid.UUID,
	update domain.CoverUpdate,
) (*domain.Book, error) {
	if update.ColorThemeID != nil && !s.deps.Themes.HasColorTheme(*update.ColorThemeID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorTheme, *update.ColorThemeID)
	}
	return s.mutate(ctx, "update_cover", bookID, func(book *domain.Book) error {
		book.SetCover(update)
		return nil
	})
}

// SetLayout implements BookService.SetLayout
func (s *bookServiceImpl) SetLayout(ctx context.Context, bookID uuid.UUID, layoutID string) (*domain.Book, error) {
	if !s.deps.Themes.HasLayout(layoutID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layoutID)
	}
	return s.mutate(ctx, "set_layout", bookID, func(book *domain.Book) error {
		book.SetLayout(layoutID)
		return nil
	})
}

// Clear implements BookService.Clear
func (s *bookServiceImpl) Clear(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	return s.mutate(ctx, "clear", bookID, func(book *domain.Book) error {
		book.Clear()
		return nil
	})
}

// Preview implements BookService.Preview
func (s *bookServiceImpl) Preview(ctx context.Context, bookID uuid.UUID) (string, error) {
	sess, err := s.session(ctx, bookID)
	if err != nil {
		return "", NewBookServiceError("preview", "failed to load book", err)
	}

	sess.mu.Lock()
	html, err := s.deps.Renderer.Render(sess.book)
	sess.mu.Unlock()
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to render preview",
			slog.String("book_id", bookID.String()),
			slog.String("error", err.Error()))
		return "", NewBookServiceError("preview", "failed to render book", err)
	}
	return html, nil
}

// Export implements BookService.Export
func (s *bookServiceImpl) Export(ctx context.Context, bookID uuid.UUID) (export.ExportResult, error) {
	sess, err := s.session(ctx, bookID)
	if err != nil {
		return export.ExportResult{}, NewBookServiceError("export", "failed to load book", err)
	}

	result, err := sess.orch.ExportPDF(ctx)

	sess.mu.Lock()
	book := sess.book.Clone()
	sess.mu.Unlock()

	if err != nil {
		if !errors.Is(err, export.ErrExportInProgress) {
			s.emit(ctx, events.TypeBookExportFailed, book, events.ExportFailedPayload{Reason: err.Error()})
		}
		return export.ExportResult{}, NewBookServiceError("export", "pdf export failed", err)
	}

	if result.Status == export.ExportExported {
		s.emit(ctx, events.TypeBookExported, book, events.ExportedPayload{
			FileName: result.FileName,
			Size:     result.Size,
		})
	}
	return result, nil
}

// Delete implements BookService.Delete
func (s *bookServiceImpl) Delete(ctx context.Context, bookID uuid.UUID) error {
	s.mu.Lock()
	_, live := s.sessions[bookID]
	delete(s.sessions, bookID)
	s.mu.Unlock()

	if !live {
		if _, err := s.deps.Drafts.Get(ctx, bookID); err != nil {
			if errors.Is(err, store.ErrDraftNotFound) {
				return ErrBookNotFound
			}
			return NewBookServiceError("delete", "failed to load draft", err)
		}
	}

	if err := s.deps.Drafts.Delete(ctx, bookID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete draft",
			slog.String("book_id", bookID.String()),
			slog.String("error", err.Error()))
		return NewBookServiceError("delete", "failed to delete draft", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("book deleted",
		slog.String("book_id", bookID.String()))
	return nil
}
