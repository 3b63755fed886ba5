package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invitation code format
const (
	InvitationCodeLength   = 6
	InvitationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultInvitationTTL   = 7 * 24 * time.Hour
)

// InvitationReason explains why an invitation cannot be redeemed.
type InvitationReason string

// Invitation rejection reasons
const (
	InvitationExpired         InvitationReason = "expired"
	InvitationAlreadyAccepted InvitationReason = "already_accepted"
	InvitationSelfRedeem      InvitationReason = "self_redeem"
)

// Invitation validation errors
var (
	ErrInvitationInviterEmpty = fmt.Errorf("%w: invitation inviter cannot be empty", ErrInvalidInput)
	ErrInvitationCodeInvalid  = fmt.Errorf("%w: invitation code must be 6 characters from A-Z0-9", ErrInvalidInput)
)

// InvitationError is returned when an invitation cannot be redeemed.
// It matches ErrInvalidInvitation with errors.Is.
type InvitationError struct {
	Code   string
	Reason InvitationReason
}

// Error implements the error interface.
func (e *InvitationError) Error() string {
	return fmt.Sprintf("invitation %s cannot be redeemed: %s", e.Code, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInvitation) true for every InvitationError.
func (e *InvitationError) Is(target error) bool {
	return target == ErrInvalidInvitation
}

// PartnershipInvitation is a one-time code a user hands to a prospective partner.
type PartnershipInvitation struct {
	Code       string     `json:"code"`
	InviterID  uuid.UUID  `json:"inviter_id"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedBy *uuid.UUID `json:"accepted_by,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

// NewPartnershipInvitation creates a pending invitation that expires after ttl.
func NewPartnershipInvitation(
	inviterID uuid.UUID,
	code string,
	now time.Time,
	ttl time.Duration,
) (*PartnershipInvitation, error) {
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}

	inv := &PartnershipInvitation{
		Code:      code,
		InviterID: inviterID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	return inv, nil
}

// Validate checks if the invitation has valid data.
func (i *PartnershipInvitation) Validate() error {
	if i.InviterID == uuid.Nil {
		return ErrInvitationInviterEmpty
	}

	if !IsValidInvitationCode(i.Code) {
		return ErrInvitationCodeInvalid
	}

	return nil
}

// IsAccepted reports whether the invitation has been redeemed.
func (i *PartnershipInvitation) IsAccepted() bool {
	return i.AcceptedBy != nil
}

// IsExpired reports whether now is past the expiry time.
func (i *PartnershipInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsValid reports whether the invitation can still be redeemed at now.
func (i *PartnershipInvitation) IsValid(now time.Time) bool {
	return !i.IsAccepted() && !i.IsExpired(now)
}

// CheckRedeemable returns an *InvitationError when userID cannot redeem the
// invitation at now.
func (i *PartnershipInvitation) CheckRedeemable(userID uuid.UUID, now time.Time) error {
	switch {
	case i.IsAccepted():
		return &InvitationError{Code: i.Code, Reason: InvitationAlreadyAccepted}
	case i.IsExpired(now):
		return &InvitationError{Code: i.Code, Reason: InvitationExpired}
	case userID == i.InviterID:
		return &InvitationError{Code: i.Code, Reason: InvitationSelfRedeem}
	}
	return nil
}

// Accept records userID as the redeemer.
func (i *PartnershipInvitation) Accept(userID uuid.UUID, now time.Time) error {
	if err := i.CheckRedeemable(userID, now); err != nil {
		return err
	}
	i.AcceptedBy = &userID
	i.AcceptedAt = &now
	return nil
}

// IsValidInvitationCode reports whether code has the expected length and alphabet.
func IsValidInvitationCode(code string) bool {
	if len(code) != InvitationCodeLength {
		return false
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
