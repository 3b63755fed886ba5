package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// DeckStore is a mock of store.DeckStore
type DeckStore struct {
	mock.Mock
}

var _ store.DeckStore = (*DeckStore)(nil)

func (m *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *DeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DeckStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	args := m.Called(ctx, userID)
	if decks, ok := args.Get(0).([]domain.Deck); ok {
		return decks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Deck, error) {
	args := m.Called(ctx, ids)
	if decks, ok := args.Get(0).([]domain.Deck); ok {
		return decks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}

// CardStore is a mock of store.CardStore
type CardStore struct {
	mock.Mock
}

var _ store.CardStore = (*CardStore)(nil)

func (m *CardStore) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardStore) Update(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CardStore) ListByDecks(ctx context.Context, deckIDs []uuid.UUID) ([]domain.Card, error) {
	args := m.Called(ctx, deckIDs)
	if cards, ok := args.Get(0).([]domain.Card); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}
