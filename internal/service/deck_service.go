package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/store"
)

// DeckService provides deck management gated by deck permissions.
type DeckService interface {
	// CreateDeck creates a deck owned and created by userID.
	CreateDeck(ctx context.Context, userID uuid.UUID, title, description string) (*domain.Deck, error)

	// GetDeck returns a deck userID may view.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// ListDecks returns every deck userID can reach, personal decks first.
	ListDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// UpdateDeck renames a deck userID may edit.
	UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, title, description string) (*domain.Deck, error)

	// DeleteDeck removes a deck and, by cascade, everything under it.
	// Only the deck's owner or creator may delete it; partners may not.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error
}

type deckServiceImpl struct {
	decks  store.DeckStore
	access *Access
	logger *slog.Logger
}

// Verify interface compliance at compile time
var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a new DeckService.
func NewDeckService(decks store.DeckStore, access *Access, logger *slog.Logger) DeckService {
	if decks == nil {
		panic("decks cannot be nil")
	}
	if access == nil {
		panic("access cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		decks:  decks,
		access: access,
		logger: logger.With(slog.String("component", "deck_service")),
	}
}

func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, title, description)
	if err != nil {
		log.Debug("invalid deck", slog.String("error", err.Error()))
		return nil, Wrap("deck", "create", err)
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, Wrap("deck", "create", err)
	}

	return deck, nil
}

func (s *deckServiceImpl) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.access.RequireView(ctx, userID, deckID)
	if err != nil {
		return nil, Wrap("deck", "get", err)
	}
	return deck, nil
}

func (s *deckServiceImpl) ListDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	decks, err := s.access.AccessibleDecks(ctx, userID)
	if err != nil {
		return nil, Wrap("deck", "list", err)
	}
	return decks, nil
}

func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	title, description string,
) (*domain.Deck, error) {
	deck, err := s.access.RequireEdit(ctx, userID, deckID)
	if err != nil {
		return nil, Wrap("deck", "update", err)
	}

	if err := deck.Rename(title, description); err != nil {
		return nil, Wrap("deck", "update", err)
	}

	if err := s.decks.Update(ctx, deck); err != nil {
		return nil, Wrap("deck", "update", err)
	}

	return deck, nil
}

func (s *deckServiceImpl) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	if _, err := s.access.RequireOwner(ctx, userID, deckID); err != nil {
		return Wrap("deck", "delete", err)
	}

	if err := s.decks.Delete(ctx, deckID); err != nil {
		return Wrap("deck", "delete", err)
	}

	return nil
}
