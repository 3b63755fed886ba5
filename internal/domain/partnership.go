package domain

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PartnershipState is the lifecycle state of a partnership.
// The only transition is Active -> Dissolved.
type PartnershipState string

// Partnership states
const (
	PartnershipActive    PartnershipState = "active"
	PartnershipDissolved PartnershipState = "dissolved"
)

// Partnership validation errors
var (
	ErrPartnershipMemberEmpty = fmt.Errorf("%w: partnership member cannot be empty", ErrInvalidInput)
	ErrPartnershipSelf        = fmt.Errorf("%w: a user cannot partner with themselves", ErrInvalidInput)
	ErrPartnershipState       = fmt.Errorf("%w: unknown partnership state", ErrInvalidInput)
)

// Partnership is a symmetric sharing relationship between two users.
// DeckIDs are the decks shared through it; they are cleared on dissolve.
type Partnership struct {
	ID          uuid.UUID        `json:"id"`
	UserA       uuid.UUID        `json:"user_a"`
	UserB       uuid.UUID        `json:"user_b"`
	State       PartnershipState `json:"state"`
	CreatedAt   time.Time        `json:"created_at"`
	DissolvedAt *time.Time       `json:"dissolved_at,omitempty"`
	DeckIDs     []uuid.UUID      `json:"deck_ids"`
}

// NewPartnership creates an active partnership between two distinct users.
func NewPartnership(userA, userB uuid.UUID, now time.Time) (*Partnership, error) {
	p := &Partnership{
		ID:        uuid.New(),
		UserA:     userA,
		UserB:     userB,
		State:     PartnershipActive,
		CreatedAt: now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Partnership has valid data.
func (p *Partnership) Validate() error {
	if p.UserA == uuid.Nil || p.UserB == uuid.Nil {
		return ErrPartnershipMemberEmpty
	}

	if p.UserA == p.UserB {
		return ErrPartnershipSelf
	}

	if p.State != PartnershipActive && p.State != PartnershipDissolved {
		return ErrPartnershipState
	}

	return nil
}

// IsActive reports whether the partnership currently grants access.
func (p *Partnership) IsActive() bool {
	return p.State == PartnershipActive
}

// HasMember reports whether userID is one of the two partners.
func (p *Partnership) HasMember(userID uuid.UUID) bool {
	return userID != uuid.Nil && (p.UserA == userID || p.UserB == userID)
}

// GetPartner returns the member that is not userID.
func (p *Partnership) GetPartner(userID uuid.UUID) (uuid.UUID, error) {
	switch userID {
	case p.UserA:
		return p.UserB, nil
	case p.UserB:
		return p.UserA, nil
	default:
		return uuid.Nil, ErrNotAMember
	}
}

// SharesDeck reports whether deckID is shared through this partnership.
func (p *Partnership) SharesDeck(deckID uuid.UUID) bool {
	for _, id := range p.DeckIDs {
		if id == deckID {
			return true
		}
	}
	return false
}

// AddDeck shares deckID through the partnership. Adding a deck twice is a no-op.
func (p *Partnership) AddDeck(deckID uuid.UUID) error {
	if !p.IsActive() {
		return ErrPartnershipDissolved
	}
	if !p.SharesDeck(deckID) {
		p.DeckIDs = append(p.DeckIDs, deckID)
	}
	return nil
}

// RemoveDeck stops sharing deckID through the partnership.
func (p *Partnership) RemoveDeck(deckID uuid.UUID) {
	kept := p.DeckIDs[:0]
	for _, id := range p.DeckIDs {
		if id != deckID {
			kept = append(kept, id)
		}
	}
	p.DeckIDs = kept
}

// Dissolve ends the partnership and clears its shared decks.
// The decks themselves are not affected.
func (p *Partnership) Dissolve(now time.Time) error {
	if !p.IsActive() {
		return ErrPartnershipDissolved
	}
	p.State = PartnershipDissolved
	p.DissolvedAt = &now
	p.DeckIDs = nil
	return nil
}

// PairKey returns the two member IDs in a canonical order so that {a, b} and
// {b, a} produce the same key.
func PairKey(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}
