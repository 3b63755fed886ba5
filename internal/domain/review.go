package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Quality is the learner's self-assessed recall quality, 0 through 5.
type Quality int

// Quality scale
const (
	QualityBlackout          Quality = 0 // complete blackout
	QualityIncorrectFamiliar Quality = 1 // incorrect, but familiar
	QualityIncorrectEasy     Quality = 2 // incorrect, but easy to recall
	QualityCorrectDifficult  Quality = 3 // correct, but difficult
	QualityCorrectHesitant   Quality = 4 // correct, with hesitation
	QualityPerfect           Quality = 5 // perfect response
)

// PassingQuality is the lowest quality counted as a successful recall.
const PassingQuality = QualityCorrectDifficult

// Review validation errors
var (
	ErrInvalidQuality    = fmt.Errorf("%w: quality must be an integer between 0 and 5", ErrInvalidInput)
	ErrInvalidTimeTaken  = fmt.Errorf("%w: time taken cannot be negative", ErrInvalidInput)
	ErrReviewCardIDEmpty = fmt.Errorf("%w: review card ID cannot be empty", ErrInvalidInput)
	ErrReviewUserIDEmpty = fmt.Errorf("%w: review user ID cannot be empty", ErrInvalidInput)
)

// IsValid reports whether q is within the 0-5 scale.
func (q Quality) IsValid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passed reports whether q counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= PassingQuality
}

// Review is an immutable log entry for one graded recall attempt.
// SessionID is nil when the review was submitted without a valid session.
type Review struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	CardID     uuid.UUID  `json:"card_id"`
	SessionID  *uuid.UUID `json:"session_id,omitempty"`
	Quality    Quality    `json:"quality"`
	Direction  Direction  `json:"direction"`
	ReviewedAt time.Time  `json:"reviewed_at"`
	TimeTaken  int        `json:"time_taken"` // seconds
}

// NewReview creates a review record.
func NewReview(
	userID, cardID uuid.UUID,
	sessionID *uuid.UUID,
	quality Quality,
	dir Direction,
	timeTaken int,
	reviewedAt time.Time,
) (*Review, error) {
	r := &Review{
		ID:         uuid.New(),
		UserID:     userID,
		CardID:     cardID,
		SessionID:  sessionID,
		Quality:    quality,
		Direction:  dir,
		ReviewedAt: reviewedAt,
		TimeTaken:  timeTaken,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrReviewUserIDEmpty
	}

	if r.CardID == uuid.Nil {
		return ErrReviewCardIDEmpty
	}

	if !r.Quality.IsValid() {
		return ErrInvalidQuality
	}

	if !r.Direction.IsValid() {
		return ErrInvalidDirection
	}

	if r.TimeTaken < 0 {
		return ErrInvalidTimeTaken
	}

	return nil
}
