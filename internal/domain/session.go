package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session validation errors
var (
	ErrSessionUserIDEmpty = fmt.Errorf("%w: session user ID cannot be empty", ErrInvalidInput)
	ErrSessionDeckIDEmpty = fmt.Errorf("%w: session deck ID cannot be empty", ErrInvalidInput)
)

// StudySession groups the reviews of one study pass over a deck.
// A nil Direction means a mixed session; a nil EndedAt means the session is open.
type StudySession struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	DeckID       uuid.UUID  `json:"deck_id"`
	Direction    *Direction `json:"direction,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	CardsStudied int        `json:"cards_studied"`
}

// NewStudySession opens a session for userID on deckID.
func NewStudySession(userID, deckID uuid.UUID, dir *Direction, now time.Time) (*StudySession, error) {
	s := &StudySession{
		ID:        uuid.New(),
		UserID:    userID,
		DeckID:    deckID,
		Direction: dir,
		StartedAt: now,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if s.DeckID == uuid.Nil {
		return ErrSessionDeckIDEmpty
	}

	if s.Direction != nil && !s.Direction.IsValid() {
		return ErrInvalidDirection
	}

	return nil
}

// Directions returns the directions studied in this session.
func (s *StudySession) Directions() []Direction {
	if s.Direction == nil {
		return Directions
	}
	return []Direction{*s.Direction}
}

// IsOpen reports whether the session has not been ended.
func (s *StudySession) IsOpen() bool {
	return s.EndedAt == nil
}

// End marks the session completed at now. A session can only be ended once.
func (s *StudySession) End(now time.Time) error {
	if s.EndedAt != nil {
		return ErrSessionEnded
	}
	s.EndedAt = &now
	return nil
}
