package curation

import (
	"github.com/phrazzld/memorybook/internal/domain"
)

// Service defines the interface for curation operations
type Service interface {
	// Curate selects a bounded, day-diverse subset of the records in the period
	// and returns them as pages in chronological order.
	Curate(records []domain.Record, period domain.Period) []domain.Page

	// Params returns the parameters the service curates with
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new curation service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new curation service with custom parameters.
// A nil params value falls back to the defaults.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Curate implements the Service interface
func (s *defaultService) Curate(records []domain.Record, period domain.Period) []domain.Page {
	return curate(records, period, s.params)
}

// Params implements the Service interface
func (s *defaultService) Params() Params {
	return *s.params
}

// Curate selects pages for the period using the default parameters
// (3 per day, 20 per book). It is pure: identical input always yields an
// identical, identically ordered result. Zero eligible records yield an empty
// slice.
func Curate(records []domain.Record, period domain.Period) []domain.Page {
	return curate(records, period, NewDefaultParams())
}
