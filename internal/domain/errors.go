// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidInput is the root of every validation failure: out-of-range
	// quality, blank required text, unknown direction. Entity-specific errors
	// wrap it so callers can check errors.Is(err, ErrInvalidInput).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidID is returned when a required ID is nil.
	ErrInvalidID = errors.New("invalid ID")

	// ErrNotAMember is returned when a user is asked about a partnership
	// they do not belong to.
	ErrNotAMember = errors.New("user is not a member of the partnership")

	// ErrPartnershipDissolved is returned when an operation requires an
	// active partnership.
	ErrPartnershipDissolved = errors.New("partnership is dissolved")

	// ErrInvalidInvitation is returned when an invitation cannot be redeemed.
	// The concrete reason is carried by *InvitationError.
	ErrInvalidInvitation = errors.New("invalid invitation")

	// ErrSessionEnded is returned when ending a session that already ended.
	ErrSessionEnded = errors.New("study session already ended")
)
