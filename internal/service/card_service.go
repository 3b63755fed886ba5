package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/store"
)

// CardService provides card management. Every operation is checked against
// the permissions of the card's deck.
type CardService interface {
	CreateCard(ctx context.Context, userID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]domain.Card, error)
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, content domain.CardContent) (*domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

type cardServiceImpl struct {
	cards  store.CardStore
	access *Access
	logger *slog.Logger
}

// Verify interface compliance at compile time
var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
func NewCardService(cards store.CardStore, access *Access, logger *slog.Logger) CardService {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if access == nil {
		panic("access cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cards:  cards,
		access: access,
		logger: logger.With(slog.String("component", "card_service")),
	}
}

func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	if _, err := s.access.RequireEdit(ctx, userID, deckID); err != nil {
		return nil, Wrap("card", "create", err)
	}

	card, err := domain.NewCard(deckID, content)
	if err != nil {
		return nil, Wrap("card", "create", err)
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, Wrap("card", "create", err)
	}

	return card, nil
}

func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, Wrap("card", "get", err)
	}

	if _, err := s.access.RequireView(ctx, userID, card.DeckID); err != nil {
		return nil, Wrap("card", "get", err)
	}

	return card, nil
}

func (s *cardServiceImpl) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]domain.Card, error) {
	if _, err := s.access.RequireView(ctx, userID, deckID); err != nil {
		return nil, Wrap("card", "list", err)
	}

	cards, err := s.cards.ListByDecks(ctx, []uuid.UUID{deckID})
	if err != nil {
		return nil, Wrap("card", "list", err)
	}
	return cards, nil
}

func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, Wrap("card", "update", err)
	}

	if _, err := s.access.RequireEdit(ctx, userID, card.DeckID); err != nil {
		return nil, Wrap("card", "update", err)
	}

	if err := card.UpdateContent(content); err != nil {
		return nil, Wrap("card", "update", err)
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, Wrap("card", "update", err)
	}

	return card, nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return Wrap("card", "delete", err)
	}

	if _, err := s.access.RequireEdit(ctx, userID, card.DeckID); err != nil {
		return Wrap("card", "delete", err)
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		return Wrap("card", "delete", err)
	}
	return nil
}
