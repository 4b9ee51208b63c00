package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/memorybook/internal/api/shared"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/export"
	"github.com/phrazzld/memorybook/internal/platform/logger"
	"github.com/phrazzld/memorybook/internal/redact"
	"github.com/phrazzld/memorybook/internal/service"
)

// BookHandler handles book-related HTTP requests
type BookHandler struct {
	books  service.BookService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(books service.BookService, logger *slog.Logger) *BookHandler {
	if books == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("book service cannot be nil for BookHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BookHandler")
	}

	return &BookHandler{
		books:  books,
		logger: logger.With(slog.String("component", "book_handler")),
	}
}

// respondWithBook writes a book snapshot or, if err is set, the mapped error.
func (h *BookHandler) respondWithBook(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	book *domain.Book,
	err error,
	failureMsg string,
) {
	if err != nil {
		HandleAPIError(w, r, err, failureMsg)
		return
	}
	shared.RespondWithJSON(w, r, status, bookToResponse(book))
}

// CreateBook handles POST /api/subjects/{subjectID}/books requests.
// It creates a book pre-filled with the subject's default layout.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subjectID, ok := handlePathUUID(w, r, "subjectID", log)
	if !ok {
		return
	}

	book, err := h.books.Create(r.Context(), subjectID)
	if err == nil {
		log.Debug("book created",
			slog.String("subject_id", subjectID.String()),
			slog.String("book_id", book.ID.String()))
	}
	h.respondWithBook(w, r, http.StatusCreated, book, err, "Failed to create book")
}

// GetBook handles GET /api/books/{bookID} requests
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	book, err := h.books.Get(r.Context(), bookID)
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to get book")
}

// DeleteBook handles DELETE /api/books/{bookID} requests
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	if err := h.books.Delete(r.Context(), bookID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateBook handles POST /api/books/{bookID}/generate requests.
//
// A generation that fails part way still leaves a usable book; it is
// returned alongside the error so the client can keep editing.
func (h *BookHandler) GenerateBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	book, err := h.books.Generate(r.Context(), bookID)
	if err != nil && book != nil {
		status := MapErrorToStatusCode(err)
		log.Warn("photo book generation failed",
			slog.String("book_id", bookID.String()),
			slog.String("error", redact.Error(err)),
			slog.Int("pages_kept", len(book.Pages)))
		shared.RespondWithJSON(w, r, status, GenerateErrorResponse{
			Error:   "Failed to generate photo book",
			TraceID: shared.GetTraceID(r.Context()),
			Book:    bookToResponse(book),
		})
		return
	}
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to generate photo book")
}

// CurateBook handles POST /api/books/{bookID}/curate requests
func (h *BookHandler) CurateBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	var req CurateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.books.CurateForPeriod(r.Context(), bookID, domain.Period{Year: req.Year, Month: req.Month})
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to curate book")
}

// AddPage handles POST /api/books/{bookID}/pages requests
func (h *BookHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	var req AddPageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.books.AddPage(r.Context(), bookID, req.toPage())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add page")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, page)
}

// RemovePage handles DELETE /api/books/{bookID}/pages/{pageID} requests.
// Unknown page ids succeed without changing the book.
func (h *BookHandler) RemovePage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	book, err := h.books.RemovePage(r.Context(), bookID, chi.URLParam(r, "pageID"))
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to remove page")
}

// ReorderPages handles POST /api/books/{bookID}/pages/reorder requests
func (h *BookHandler) ReorderPages(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	var req ReorderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.books.ReorderPage(r.Context(), bookID, *req.From, *req.To)
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to reorder pages")
}

// SetCaption handles PUT /api/books/{bookID}/pages/{pageID}/caption requests
func (h *BookHandler) SetCaption(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	var req CaptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.books.SetCaption(r.Context(), bookID, chi.URLParam(r, "pageID"), req.Caption)
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to set caption")
}

// UpdateCover handles PATCH /api/books/{bookID}/cover requests
func (h *BookHandler) UpdateCover(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	var req CoverRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.books.UpdateCover(r.Context(), bookID, req.toUpdate())
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to update cover")
}

// SetLayout handles PUT /api/books/{bookID}/layout requests
func (h *BookHandler) SetLayout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	var req LayoutRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	book, err := h.books.SetLayout(r.Context(), bookID, req.LayoutID)
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to set layout")
}

// ClearBook handles POST /api/books/{bookID}/clear requests
func (h *BookHandler) ClearBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	book, err := h.books.Clear(r.Context(), bookID)
	h.respondWithBook(w, r, http.StatusOK, book, err, "Failed to clear book")
}

// PreviewBook handles GET /api/books/{bookID}/preview requests.
// It returns the rendered HTML document.
func (h *BookHandler) PreviewBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	html, err := h.books.Preview(r.Context(), bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to render book")
		return
	}
	shared.RespondWithHTML(w, r, http.StatusOK, html)
}

// ExportBook handles POST /api/books/{bookID}/export requests.
//
// Responses:
//   - 200 with the export result when the PDF was shared
//   - 402 when the subject has no export entitlement
//   - 204 when the book has no pages
//   - 409 when an export is already running
func (h *BookHandler) ExportBook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	bookID, ok := handlePathUUID(w, r, "bookID", log)
	if !ok {
		return
	}

	result, err := h.books.Export(r.Context(), bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export book")
		return
	}

	switch result.Status {
	case export.ExportRefused:
		log.Info("export refused", slog.String("book_id", bookID.String()))
		shared.RespondWithJSON(w, r, http.StatusPaymentRequired, exportToResponse(result))
	case export.ExportSkipped:
		log.Debug("export skipped, empty book", slog.String("book_id", bookID.String()))
		w.WriteHeader(http.StatusNoContent)
	default:
		shared.RespondWithJSON(w, r, http.StatusOK, exportToResponse(result))
	}
}
