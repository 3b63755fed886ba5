// Package study runs study sessions: it opens sessions, lists due cards and
// records graded reviews against per-user, per-direction progress.
package study

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// ReviewRequest is one graded recall attempt submitted by a user.
type ReviewRequest struct {
	CardID  uuid.UUID
	Quality domain.Quality

	// SessionID links the review to a study session. It may be nil.
	SessionID *uuid.UUID

	// Direction is the direction that was studied. When nil it defaults to
	// the session's fixed direction, then to domain.DirectionAToB.
	Direction *domain.Direction

	// TimeTaken is the time spent on the card in seconds.
	TimeTaken int
}

// ReviewResult is the outcome of SubmitReview.
type ReviewResult struct {
	Progress *domain.Progress
	Review   *domain.Review

	// SessionLinked is false when a session was referenced but could not be
	// used (missing, another user's, another deck's or already ended). The
	// progress update and review still happen; the review carries no session.
	SessionLinked bool
}

// StartedSession is a freshly opened session and its initial due list.
type StartedSession struct {
	Session *domain.StudySession `json:"session"`
	Due     []domain.DueCard     `json:"due"`
}

// Service defines study operations. Every operation takes the acting user
// explicitly and checks deck access.
type Service interface {
	// StartSession opens a session on deckID. A nil dir means a mixed
	// session covering both directions.
	StartSession(ctx context.Context, userID, deckID uuid.UUID, dir *domain.Direction) (*StartedSession, error)

	// FetchDue returns the (card, direction) pairs of deckID due for userID,
	// earliest first. Pairs never reviewed are included.
	FetchDue(ctx context.Context, userID, deckID uuid.UUID, dir *domain.Direction) ([]domain.DueCard, error)

	// SubmitReview schedules the next review of a card and logs the attempt.
	// The progress update, the review row and the session counter are
	// written in one transaction.
	SubmitReview(ctx context.Context, userID uuid.UUID, req ReviewRequest) (*ReviewResult, error)

	// EndSession closes a session. Only its owner may end it, and only once.
	EndSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)
}
