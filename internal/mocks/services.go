package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	domainstats "github.com/phrazzld/tandem-api/internal/domain/stats"
	"github.com/phrazzld/tandem-api/internal/service"
	"github.com/phrazzld/tandem-api/internal/service/sharing"
	"github.com/phrazzld/tandem-api/internal/service/stats"
	"github.com/phrazzld/tandem-api/internal/service/study"
	"github.com/stretchr/testify/mock"
)

// DeckService is a mock of service.DeckService
type DeckService struct {
	mock.Mock
}

var _ service.DeckService = (*DeckService)(nil)

func (m *DeckService) CreateDeck(ctx context.Context, userID uuid.UUID, title, description string) (*domain.Deck, error) {
	args := m.Called(ctx, userID, title, description)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, userID, deckID)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckService) ListDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	args := m.Called(ctx, userID)
	if decks, ok := args.Get(0).([]domain.Deck); ok {
		return decks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckService) UpdateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	title, description string,
) (*domain.Deck, error) {
	args := m.Called(ctx, userID, deckID, title, description)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DeckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	args := m.Called(ctx, userID, deckID)
	return args.Error(0)
}

// CardService is a mock of service.CardService
type CardService struct {
	mock.Mock
}

var _ service.CardService = (*CardService)(nil)

func (m *CardService) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, deckID, content)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardService) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]domain.Card, error) {
	args := m.Called(ctx, userID, deckID)
	if cards, ok := args.Get(0).([]domain.Card); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardService) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID, content)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	args := m.Called(ctx, userID, cardID)
	return args.Error(0)
}

// StudyService is a mock of study.Service
type StudyService struct {
	mock.Mock
}

var _ study.Service = (*StudyService)(nil)

func (m *StudyService) StartSession(
	ctx context.Context,
	userID, deckID uuid.UUID,
	dir *domain.Direction,
) (*study.StartedSession, error) {
	args := m.Called(ctx, userID, deckID, dir)
	if s, ok := args.Get(0).(*study.StartedSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudyService) FetchDue(
	ctx context.Context,
	userID, deckID uuid.UUID,
	dir *domain.Direction,
) ([]domain.DueCard, error) {
	args := m.Called(ctx, userID, deckID, dir)
	if due, ok := args.Get(0).([]domain.DueCard); ok {
		return due, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudyService) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	req study.ReviewRequest,
) (*study.ReviewResult, error) {
	args := m.Called(ctx, userID, req)
	if res, ok := args.Get(0).(*study.ReviewResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudyService) EndSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error) {
	args := m.Called(ctx, userID, sessionID)
	if s, ok := args.Get(0).(*domain.StudySession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// SharingService is a mock of sharing.Service
type SharingService struct {
	mock.Mock
}

var _ sharing.Service = (*SharingService)(nil)

func (m *SharingService) CreateInvitation(
	ctx context.Context,
	inviterID uuid.UUID,
) (*domain.PartnershipInvitation, error) {
	args := m.Called(ctx, inviterID)
	if inv, ok := args.Get(0).(*domain.PartnershipInvitation); ok {
		return inv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SharingService) RedeemInvitation(
	ctx context.Context,
	code string,
	userID uuid.UUID,
) (*domain.Partnership, error) {
	args := m.Called(ctx, code, userID)
	return partnershipResult(args)
}

func (m *SharingService) ListPartnerships(ctx context.Context, userID uuid.UUID) ([]domain.Partnership, error) {
	args := m.Called(ctx, userID)
	if ps, ok := args.Get(0).([]domain.Partnership); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SharingService) Dissolve(ctx context.Context, userID, partnershipID uuid.UUID) (*domain.Partnership, error) {
	args := m.Called(ctx, userID, partnershipID)
	return partnershipResult(args)
}

func (m *SharingService) ShareDeck(
	ctx context.Context,
	userID, partnershipID, deckID uuid.UUID,
) (*domain.Partnership, error) {
	args := m.Called(ctx, userID, partnershipID, deckID)
	return partnershipResult(args)
}

func (m *SharingService) UnshareDeck(
	ctx context.Context,
	userID, partnershipID, deckID uuid.UUID,
) (*domain.Partnership, error) {
	args := m.Called(ctx, userID, partnershipID, deckID)
	return partnershipResult(args)
}

func (m *SharingService) CanEdit(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, deckID)
	return args.Bool(0), args.Error(1)
}

func (m *SharingService) CanView(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, deckID)
	return args.Bool(0), args.Error(1)
}

func partnershipResult(args mock.Arguments) (*domain.Partnership, error) {
	if p, ok := args.Get(0).(*domain.Partnership); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// StatsService is a mock of stats.Service
type StatsService struct {
	mock.Mock
}

var _ stats.Service = (*StatsService)(nil)

func (m *StatsService) ForDeck(ctx context.Context, userID, deckID uuid.UUID) (*domainstats.Stats, error) {
	args := m.Called(ctx, userID, deckID)
	if s, ok := args.Get(0).(*domainstats.Stats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsService) ForDecks(ctx context.Context, userID uuid.UUID, deckIDs []uuid.UUID) (*domainstats.Stats, error) {
	args := m.Called(ctx, userID, deckIDs)
	if s, ok := args.Get(0).(*domainstats.Stats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsService) ForUser(ctx context.Context, userID uuid.UUID) (*domainstats.UserStats, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*domainstats.UserStats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsService) Close() {
	m.Called()
}
