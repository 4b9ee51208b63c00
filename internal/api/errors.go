package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/memorybook/internal/api/shared"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/export"
	"github.com/phrazzld/memorybook/internal/service"
	"github.com/phrazzld/memorybook/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, export.ErrGenerationInProgress),
		errors.Is(err, export.ErrExportInProgress):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrUnknownLayout),
		errors.Is(err, service.ErrUnknownColorTheme),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidPageType),
		errors.Is(err, domain.ErrTitlePageSource),
		errors.Is(err, domain.ErrPageMediaRequired),
		errors.Is(err, domain.ErrTitlePageNotAddable),
		errors.Is(err, domain.ErrBookSubjectIDEmpty),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, export.ErrGenerationInProgress):
		return "Photo book generation already in progress"

	case errors.Is(err, export.ErrExportInProgress):
		return "PDF export already in progress"

	case errors.Is(err, service.ErrUnknownLayout):
		return "Unknown layout template"

	case errors.Is(err, service.ErrUnknownColorTheme):
		return "Unknown color theme"

	case errors.Is(err, domain.ErrInvalidPeriod):
		return "Invalid period"

	case errors.Is(err, domain.ErrInvalidPageType):
		return "Invalid page type"

	case errors.Is(err, domain.ErrTitlePageSource):
		return "Title pages cannot reference a record"

	case errors.Is(err, domain.ErrPageMediaRequired):
		return "Pages from records require a media reference"

	case errors.Is(err, domain.ErrTitlePageNotAddable):
		return "Title pages cannot be added"

	case errors.Is(err, domain.ErrBookSubjectIDEmpty):
		return "Subject ID is required"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes a sanitized error response for err. For errors that
// map to 500, defaultMsg (when set) replaces the generic message so the
// client learns which operation failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns validator output into a short client message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "expected YYYY-MM-DD"
	default:
		return "validation failed"
	}
}
