package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// ProgressStore defines the interface for per-(user, card, direction)
// scheduling state.
type ProgressStore interface {
	// Get retrieves progress without locking.
	// Returns ErrProgressNotFound if no row exists.
	Get(ctx context.Context, userID, cardID uuid.UUID, dir domain.Direction) (*domain.Progress, error)

	// GetOrCreateForUpdate returns the progress row for the triple, inserting
	// a fresh one (ease 2.5, interval 1, repetitions 0, due at now) when none
	// exists, and locks it with SELECT ... FOR UPDATE. It must run inside a
	// transaction so concurrent reviews of the same triple are serialized.
	// Returns ErrInvalidEntity when the card does not exist.
	GetOrCreateForUpdate(
		ctx context.Context,
		userID, cardID uuid.UUID,
		dir domain.Direction,
		now time.Time,
	) (*domain.Progress, error)

	// Update saves scheduling fields of an existing row.
	// Returns ErrProgressNotFound if the row does not exist.
	Update(ctx context.Context, progress *domain.Progress) error

	// ListByUserAndCards returns the user's progress rows for the given cards.
	ListByUserAndCards(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) ([]domain.Progress, error)

	// ListDue returns the (card, direction) pairs of deckID that are due for
	// userID at asOf, restricted to dirs. Pairs never reviewed are due and
	// sort by the card's creation time. Results are ordered by effective due
	// time ascending, then card ID, then direction.
	ListDue(
		ctx context.Context,
		userID, deckID uuid.UUID,
		dirs []domain.Direction,
		asOf time.Time,
	) ([]domain.DueCard, error)

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
