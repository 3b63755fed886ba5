package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// ReviewStore defines the interface for the append-only review log.
type ReviewStore interface {
	// Create appends a review. Reviews are never updated or deleted directly.
	Create(ctx context.Context, review *domain.Review) error

	// ListByUserAndCards returns the user's reviews of the given cards,
	// oldest first.
	ListByUserAndCards(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) ([]domain.Review, error)

	// WithTx returns a new ReviewStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
