package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrDeckNotFound, ErrCardNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second progress row for the same triple).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or violates a database constraint (foreign key, check).
	// Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionConflict is returned when the database aborted a
	// transaction because of a serialization failure or deadlock.
	// RunInTransaction retries these once.
	ErrTransactionConflict = errors.New("transaction conflict")

	// Entity-specific "not found" errors

	ErrDeckNotFound        = fmt.Errorf("%w: deck", ErrNotFound)
	ErrCardNotFound        = fmt.Errorf("%w: card", ErrNotFound)
	ErrProgressNotFound    = fmt.Errorf("%w: progress", ErrNotFound)
	ErrSessionNotFound     = fmt.Errorf("%w: study session", ErrNotFound)
	ErrPartnershipNotFound = fmt.Errorf("%w: partnership", ErrNotFound)
	ErrInvitationNotFound  = fmt.Errorf("%w: invitation", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrInvitationCodeExists indicates the generated invitation code is taken.
	ErrInvitationCodeExists = fmt.Errorf("%w: invitation code", ErrDuplicate)

	// ErrPartnershipExists indicates the pair already has an active partnership.
	ErrPartnershipExists = fmt.Errorf("%w: active partnership", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// All entity-specific not found errors wrap ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
// All entity-specific duplicate errors wrap ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "deck", "progress")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
