package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
type SessionStore interface {
	// Create saves a new session.
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByID retrieves a session.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// IncrementCardsStudied adds one to cards_studied of an open session.
	// Returns ErrSessionNotFound if the session does not exist and
	// domain.ErrSessionEnded if it has already ended.
	IncrementCardsStudied(ctx context.Context, id uuid.UUID) error

	// End sets ended_at if it is still unset.
	// Returns ErrSessionNotFound if the session does not exist and
	// domain.ErrSessionEnded if it was already ended.
	End(ctx context.Context, id uuid.UUID, endedAt time.Time) error

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}
