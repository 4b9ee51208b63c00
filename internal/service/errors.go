package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/export"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in BookServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrBookNotFound indicates that no live session or stored draft exists
	// for the book id. API layer should map this to HTTP 404 Not Found.
	ErrBookNotFound = errors.New("book not found")

	// ErrUnknownLayout indicates a layout template id that is not in the
	// theme registry. API layer should map this to HTTP 400 Bad Request.
	ErrUnknownLayout = errors.New("unknown layout template")

	// ErrUnknownColorTheme indicates a cover color theme id that is not in
	// the theme registry. API layer should map this to HTTP 400 Bad Request.
	ErrUnknownColorTheme = errors.New("unknown color theme")
)

// passthrough lists the errors NewBookServiceError hands back unwrapped.
var passthrough = []error{
	ErrBookNotFound,
	ErrUnknownLayout,
	ErrUnknownColorTheme,
	export.ErrGenerationInProgress,
	export.ErrExportInProgress,
	domain.ErrInvalidPeriod,
	domain.ErrInvalidPageType,
	domain.ErrTitlePageSource,
	domain.ErrPageMediaRequired,
	domain.ErrTitlePageNotAddable,
	domain.ErrBookSubjectIDEmpty,
}

// BookServiceError wraps errors from the book service with context.
type BookServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for BookServiceError.
func (e *BookServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("book service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("book service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As chains.
func (e *BookServiceError) Unwrap() error {
	return e.Err
}

// NewBookServiceError creates a new BookServiceError.
// Errors the API reports by kind are returned unchanged so errors.Is keeps
// working and their message stays intact.
func NewBookServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range passthrough {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	return &BookServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
