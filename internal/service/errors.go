// Package service provides application-level services for decks, cards and
// deck access checks.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Validation failures keep their domain error (errors.Is domain.ErrInvalidInput)
// 2. Missing entities keep their store error (errors.Is store.ErrNotFound)
// 3. Anything unexpected is wrapped with ErrInternal
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrPermissionDenied indicates the user may not view or edit the deck.
	// It is deliberately distinct from not-found: callers learn that the deck
	// exists. API layer should map this to HTTP 403 Forbidden.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInternal marks persistence failures and exhausted retries.
	// API layer should map this to HTTP 500 with a generic message.
	ErrInternal = errors.New("internal error")
)

// ServiceError records which service operation failed.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) error {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}

// IsExpected reports whether err belongs to the caller-facing taxonomy
// (invalid input, not found, permission denied, invitation or lifecycle
// errors) rather than an internal failure.
func IsExpected(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, domain.ErrInvalidInvitation) ||
		errors.Is(err, domain.ErrNotAMember) ||
		errors.Is(err, domain.ErrPartnershipDissolved) ||
		errors.Is(err, domain.ErrSessionEnded) ||
		errors.Is(err, store.ErrDuplicate)
}

// Wrap returns a ServiceError for err. Errors outside the expected taxonomy
// are additionally marked with ErrInternal.
func Wrap(service, op string, err error) error {
	if err == nil {
		return nil
	}
	if !IsExpected(err) && !errors.Is(err, ErrInternal) {
		err = fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return NewServiceError(service, op, err)
}
