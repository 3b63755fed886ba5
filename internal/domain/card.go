package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxLanguageCodeLength bounds language code fields (e.g. "sr", "de", "pt-BR").
const MaxLanguageCodeLength = 10

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is nil.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrInvalidInput)

	// ErrCardDeckIDEmpty is returned when a card does not reference a deck.
	ErrCardDeckIDEmpty = fmt.Errorf("%w: card deck ID cannot be empty", ErrInvalidInput)

	// ErrCardTermEmpty is returned when either side of the term pair is blank.
	ErrCardTermEmpty = fmt.Errorf("%w: card terms cannot be blank", ErrInvalidInput)

	// ErrCardLanguageCodeInvalid is returned when a language code is too long.
	ErrCardLanguageCodeInvalid = fmt.Errorf("%w: card language code is invalid", ErrInvalidInput)
)

// Card is one bilingual term pair. It is direction-agnostic and carries no
// scheduling state; per-user, per-direction state lives in Progress.
type Card struct {
	ID            uuid.UUID `json:"id"`
	DeckID        uuid.UUID `json:"deck_id"`
	LanguageA     string    `json:"language_a"`
	LanguageB     string    `json:"language_b"`
	LanguageACode string    `json:"language_a_code"`
	LanguageBCode string    `json:"language_b_code"`
	Context       string    `json:"context"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CardContent holds the editable fields of a card.
type CardContent struct {
	LanguageA     string `json:"language_a"`
	LanguageB     string `json:"language_b"`
	LanguageACode string `json:"language_a_code"`
	LanguageBCode string `json:"language_b_code"`
	Context       string `json:"context"`
}

// NewCard creates a new card in the given deck.
func NewCard(deckID uuid.UUID, content CardContent) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	card.apply(content)

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if strings.TrimSpace(c.LanguageA) == "" || strings.TrimSpace(c.LanguageB) == "" {
		return ErrCardTermEmpty
	}

	if len(c.LanguageACode) > MaxLanguageCodeLength || len(c.LanguageBCode) > MaxLanguageCodeLength {
		return ErrCardLanguageCodeInvalid
	}

	return nil
}

// UpdateContent replaces the card's content and bumps UpdatedAt.
// The card is left unchanged if the new content is invalid.
func (c *Card) UpdateContent(content CardContent) error {
	orig := *c
	c.apply(content)

	if err := c.Validate(); err != nil {
		*c = orig
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Prompt returns the side of the card shown to the learner in the given direction.
func (c *Card) Prompt(dir Direction) string {
	if dir == DirectionBToA {
		return c.LanguageB
	}
	return c.LanguageA
}

// Answer returns the side the learner is expected to recall in the given direction.
func (c *Card) Answer(dir Direction) string {
	if dir == DirectionBToA {
		return c.LanguageA
	}
	return c.LanguageB
}

func (c *Card) apply(content CardContent) {
	c.LanguageA = strings.TrimSpace(content.LanguageA)
	c.LanguageB = strings.TrimSpace(content.LanguageB)
	c.LanguageACode = strings.ToLower(strings.TrimSpace(content.LanguageACode))
	c.LanguageBCode = strings.ToLower(strings.TrimSpace(content.LanguageBCode))
	c.Context = strings.TrimSpace(content.Context)
}
