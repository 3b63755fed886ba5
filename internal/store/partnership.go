package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// PartnershipStore defines the interface for partnership persistence.
// Returned partnerships have DeckIDs populated.
type PartnershipStore interface {
	// Create saves a new active partnership.
	// Returns ErrPartnershipExists if the unordered pair already has one.
	Create(ctx context.Context, p *domain.Partnership) error

	// GetByID retrieves a partnership in any state.
	// Returns ErrPartnershipNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Partnership, error)

	// GetActiveByPair finds the active partnership between a and b in
	// either order. Returns ErrPartnershipNotFound if there is none.
	GetActiveByPair(ctx context.Context, a, b uuid.UUID) (*domain.Partnership, error)

	// ListActiveByUser returns the user's active partnerships, oldest first.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Partnership, error)

	// ListActiveByDeck returns the active partnerships sharing deckID.
	ListActiveByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Partnership, error)

	// AddDeck shares deckID through the partnership. Sharing twice is a no-op.
	AddDeck(ctx context.Context, partnershipID, deckID uuid.UUID) error

	// RemoveDeck stops sharing deckID through the partnership.
	RemoveDeck(ctx context.Context, partnershipID, deckID uuid.UUID) error

	// Dissolve persists p's dissolved state and removes its shared decks.
	// Returns ErrPartnershipNotFound if it does not exist or is not active.
	Dissolve(ctx context.Context, p *domain.Partnership) error

	// WithTx returns a new PartnershipStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PartnershipStore
}
