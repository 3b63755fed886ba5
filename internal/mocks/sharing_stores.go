package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// PartnershipStore is a mock of store.PartnershipStore
type PartnershipStore struct {
	mock.Mock
}

var _ store.PartnershipStore = (*PartnershipStore)(nil)

func (m *PartnershipStore) Create(ctx context.Context, p *domain.Partnership) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PartnershipStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Partnership, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*domain.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipStore) GetActiveByPair(ctx context.Context, a, b uuid.UUID) (*domain.Partnership, error) {
	args := m.Called(ctx, a, b)
	if p, ok := args.Get(0).(*domain.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipStore) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Partnership, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).([]domain.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipStore) ListActiveByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Partnership, error) {
	args := m.Called(ctx, deckID)
	if p, ok := args.Get(0).([]domain.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PartnershipStore) AddDeck(ctx context.Context, partnershipID, deckID uuid.UUID) error {
	args := m.Called(ctx, partnershipID, deckID)
	return args.Error(0)
}

func (m *PartnershipStore) RemoveDeck(ctx context.Context, partnershipID, deckID uuid.UUID) error {
	args := m.Called(ctx, partnershipID, deckID)
	return args.Error(0)
}

func (m *PartnershipStore) Dissolve(ctx context.Context, p *domain.Partnership) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PartnershipStore) WithTx(tx *sql.Tx) store.PartnershipStore {
	return m
}

// InvitationStore is a mock of store.InvitationStore
type InvitationStore struct {
	mock.Mock
}

var _ store.InvitationStore = (*InvitationStore)(nil)

func (m *InvitationStore) Create(ctx context.Context, inv *domain.PartnershipInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *InvitationStore) GetByCodeForUpdate(ctx context.Context, code string) (*domain.PartnershipInvitation, error) {
	args := m.Called(ctx, code)
	if inv, ok := args.Get(0).(*domain.PartnershipInvitation); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InvitationStore) MarkAccepted(ctx context.Context, inv *domain.PartnershipInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *InvitationStore) WithTx(tx *sql.Tx) store.InvitationStore {
	return m
}
