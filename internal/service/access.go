package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/store"
)

// Access answers permission questions about decks using persisted
// ownership and partnership state. The rules themselves live in
// domain.CanEdit and domain.CanView.
type Access struct {
	decks        store.DeckStore
	partnerships store.PartnershipStore
	logger       *slog.Logger
}

// NewAccess creates an Access resolver. It panics on nil stores.
func NewAccess(decks store.DeckStore, partnerships store.PartnershipStore, logger *slog.Logger) *Access {
	if decks == nil {
		panic("decks cannot be nil")
	}
	if partnerships == nil {
		panic("partnerships cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Access{
		decks:        decks,
		partnerships: partnerships,
		logger:       logger.With(slog.String("component", "access")),
	}
}

// load fetches a deck and the active partnerships sharing it.
func (a *Access) load(ctx context.Context, deckID uuid.UUID) (*domain.Deck, []domain.Partnership, error) {
	deck, err := a.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}

	partnerships, err := a.partnerships.ListActiveByDeck(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}

	return deck, partnerships, nil
}

// CanEdit reports whether userID may edit deckID.
func (a *Access) CanEdit(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
	deck, partnerships, err := a.load(ctx, deckID)
	if err != nil {
		return false, err
	}
	return domain.CanEdit(deck, userID, partnerships), nil
}

// CanView reports whether userID may view deckID.
func (a *Access) CanView(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
	deck, partnerships, err := a.load(ctx, deckID)
	if err != nil {
		return false, err
	}
	return domain.CanView(deck, userID, partnerships), nil
}

// RequireEdit returns the deck when userID may edit it and
// ErrPermissionDenied otherwise.
func (a *Access) RequireEdit(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, partnerships, err := a.load(ctx, deckID)
	if err != nil {
		return nil, err
	}

	if !domain.CanEdit(deck, userID, partnerships) {
		logger.FromContextOrDefault(ctx, a.logger).Warn("edit denied",
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, ErrPermissionDenied
	}
	return deck, nil
}

// RequireView returns the deck when userID may view it and
// ErrPermissionDenied otherwise.
func (a *Access) RequireView(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, partnerships, err := a.load(ctx, deckID)
	if err != nil {
		return nil, err
	}

	if !domain.CanView(deck, userID, partnerships) {
		logger.FromContextOrDefault(ctx, a.logger).Warn("view denied",
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, ErrPermissionDenied
	}
	return deck, nil
}

// RequireOwner returns the deck when userID is its owner or creator and
// ErrPermissionDenied otherwise. Partnership grants do not count, so a
// partner can never pass a deck on to a third account.
func (a *Access) RequireOwner(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := a.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	if !deck.IsOwnedBy(userID) {
		logger.FromContextOrDefault(ctx, a.logger).Warn("owner action denied",
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, ErrPermissionDenied
	}
	return deck, nil
}

// AccessibleDecks lists every deck userID can reach: owned or created decks
// first, then decks shared through active partnerships. Each deck appears once.
func (a *Access) AccessibleDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	owned, err := a.decks.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	partnerships, err := a.partnerships.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(owned))
	for _, d := range owned {
		seen[d.ID] = struct{}{}
	}

	var sharedIDs []uuid.UUID
	for _, p := range partnerships {
		for _, id := range p.DeckIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			sharedIDs = append(sharedIDs, id)
		}
	}

	decks := owned
	if len(sharedIDs) > 0 {
		shared, err := a.decks.ListByIDs(ctx, sharedIDs)
		if err != nil {
			return nil, err
		}
		decks = append(decks, shared...)
	}

	if decks == nil {
		decks = []domain.Deck{}
	}
	return decks, nil
}
