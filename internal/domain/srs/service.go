package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/tandem-api/internal/domain"
)

// Common errors
var (
	ErrNilProgress = errors.New("progress cannot be nil")
)

// Service defines the interface for SM-2 scheduling operations.
type Service interface {
	// CalculateNextReview computes the progress that results from reviewing
	// with the given quality at now. It is a pure function of its inputs:
	// replaying the same arguments yields the same result, and the input
	// progress is not modified.
	//
	// Returns domain.ErrInvalidQuality (which wraps domain.ErrInvalidInput)
	// when quality is outside [0, 5].
	CalculateNextReview(
		progress *domain.Progress,
		quality domain.Quality,
		now time.Time,
	) (*domain.Progress, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface
func (s *defaultService) CalculateNextReview(
	progress *domain.Progress,
	quality domain.Quality,
	now time.Time,
) (*domain.Progress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if !quality.IsValid() {
		return nil, domain.ErrInvalidQuality
	}

	return calculateNextProgress(progress, quality, now, s.params), nil
}
