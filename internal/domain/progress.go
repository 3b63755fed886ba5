package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Direction selects which side of a card is the prompt.
type Direction string

// Possible study directions
const (
	DirectionAToB Direction = "A_TO_B"
	DirectionBToA Direction = "B_TO_A"
)

// Directions lists every direction in a stable order.
var Directions = []Direction{DirectionAToB, DirectionBToA}

// Default scheduling values for a never-reviewed (user, card, direction).
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	DefaultInterval   = 1

	// MaxInterval caps the scheduled interval at roughly a century, keeping
	// next_review well inside the range a timestamp column can store.
	MaxInterval = 36500
)

// Progress validation errors
var (
	ErrProgressUserIDEmpty = fmt.Errorf("%w: progress user ID cannot be empty", ErrInvalidInput)
	ErrProgressCardIDEmpty = fmt.Errorf("%w: progress card ID cannot be empty", ErrInvalidInput)
	ErrInvalidDirection    = fmt.Errorf("%w: direction must be A_TO_B or B_TO_A", ErrInvalidInput)
	ErrInvalidInterval     = fmt.Errorf("%w: interval must be between 1 and 36500 days", ErrInvalidInput)
	ErrInvalidEaseFactor   = fmt.Errorf("%w: ease factor must be at least 1.3", ErrInvalidInput)
	ErrInvalidRepetitions  = fmt.Errorf("%w: repetitions cannot be negative", ErrInvalidInput)
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionAToB || d == DirectionBToA
}

// ParseDirection converts a string into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.IsValid() {
		return "", ErrInvalidDirection
	}
	return d, nil
}

// Progress is the SM-2 scheduling state of one card for one user in one
// direction. It is unique per (UserID, CardID, Direction).
type Progress struct {
	UserID      uuid.UUID `json:"user_id"`
	CardID      uuid.UUID `json:"card_id"`
	Direction   Direction `json:"direction"`
	EaseFactor  float64   `json:"ease_factor"`
	Interval    int       `json:"interval"`    // days
	Repetitions int       `json:"repetitions"` // consecutive successful reviews
	NextReview  time.Time `json:"next_review"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProgress returns fresh scheduling state that is due at now.
func NewProgress(userID, cardID uuid.UUID, dir Direction, now time.Time) (*Progress, error) {
	p := &Progress{
		UserID:      userID,
		CardID:      cardID,
		Direction:   dir,
		EaseFactor:  DefaultEaseFactor,
		Interval:    DefaultInterval,
		Repetitions: 0,
		NextReview:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks if the Progress has valid data.
func (p *Progress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}

	if p.CardID == uuid.Nil {
		return ErrProgressCardIDEmpty
	}

	if !p.Direction.IsValid() {
		return ErrInvalidDirection
	}

	if p.Interval < 1 || p.Interval > MaxInterval {
		return ErrInvalidInterval
	}

	if p.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	if p.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	return nil
}

// IsDue reports whether the progress is due at asOf.
func (p *Progress) IsDue(asOf time.Time) bool {
	return !p.NextReview.After(asOf)
}

// DueCard is one entry of a due list: a card to be studied in a direction.
// NextReview is the card's creation time when the pair was never reviewed.
type DueCard struct {
	Card       Card      `json:"card"`
	Direction  Direction `json:"direction"`
	NextReview time.Time `json:"next_review"`
	New        bool      `json:"new"`
}
