package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxDeckTitleLength is the maximum number of characters in a deck title.
const MaxDeckTitleLength = 200

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is nil.
	ErrDeckIDEmpty = fmt.Errorf("%w: deck ID cannot be empty", ErrInvalidInput)

	// ErrDeckOwnerEmpty is returned when a deck has no owner.
	ErrDeckOwnerEmpty = fmt.Errorf("%w: deck owner cannot be empty", ErrInvalidInput)

	// ErrDeckTitleEmpty is returned when a deck title is blank.
	ErrDeckTitleEmpty = fmt.Errorf("%w: deck title cannot be blank", ErrInvalidInput)

	// ErrDeckTitleTooLong is returned when a deck title exceeds MaxDeckTitleLength.
	ErrDeckTitleTooLong = fmt.Errorf("%w: deck title is too long", ErrInvalidInput)
)

// Deck is a named collection of bilingual cards. OwnerID is the user the deck
// belongs to; CreatorID records who made it and may diverge from the owner
// once the deck is shared.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new deck owned and created by ownerID.
func NewDeck(ownerID uuid.UUID, title, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CreatorID:   ownerID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.OwnerID == uuid.Nil {
		return ErrDeckOwnerEmpty
	}

	if strings.TrimSpace(d.Title) == "" {
		return ErrDeckTitleEmpty
	}

	if len([]rune(d.Title)) > MaxDeckTitleLength {
		return ErrDeckTitleTooLong
	}

	return nil
}

// Rename updates the title and description, leaving the deck untouched when
// the new values are invalid.
func (d *Deck) Rename(title, description string) error {
	orig := *d
	d.Title = strings.TrimSpace(title)
	d.Description = strings.TrimSpace(description)

	if err := d.Validate(); err != nil {
		*d = orig
		return err
	}

	d.UpdatedAt = time.Now().UTC()
	return nil
}

// IsOwnedBy reports whether userID is the deck's creator or owner.
func (d *Deck) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && (d.CreatorID == userID || d.OwnerID == userID)
}
