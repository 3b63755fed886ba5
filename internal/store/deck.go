package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck. The deck is validated first.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// Update saves the title, description and owner of an existing deck.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck. Cards, progress, sessions, reviews and
	// partnership shares referencing it are removed by ON DELETE CASCADE.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOwner returns the decks a user owns or created, oldest first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// ListByIDs returns the decks with the given IDs, oldest first.
	// Unknown IDs are skipped.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Deck, error)

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
