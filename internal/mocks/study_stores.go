package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// ProgressStore is a mock of store.ProgressStore
type ProgressStore struct {
	mock.Mock
}

var _ store.ProgressStore = (*ProgressStore)(nil)

func (m *ProgressStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
	dir domain.Direction,
) (*domain.Progress, error) {
	args := m.Called(ctx, userID, cardID, dir)
	if p, ok := args.Get(0).(*domain.Progress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressStore) GetOrCreateForUpdate(
	ctx context.Context,
	userID, cardID uuid.UUID,
	dir domain.Direction,
	now time.Time,
) (*domain.Progress, error) {
	args := m.Called(ctx, userID, cardID, dir, now)
	if p, ok := args.Get(0).(*domain.Progress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressStore) Update(ctx context.Context, progress *domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *ProgressStore) ListByUserAndCards(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) ([]domain.Progress, error) {
	args := m.Called(ctx, userID, cardIDs)
	if p, ok := args.Get(0).([]domain.Progress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressStore) ListDue(
	ctx context.Context,
	userID, deckID uuid.UUID,
	dirs []domain.Direction,
	asOf time.Time,
) ([]domain.DueCard, error) {
	args := m.Called(ctx, userID, deckID, dirs, asOf)
	if due, ok := args.Get(0).([]domain.DueCard); ok {
		return due, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return m
}

// SessionStore is a mock of store.SessionStore
type SessionStore struct {
	mock.Mock
}

var _ store.SessionStore = (*SessionStore)(nil)

func (m *SessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*domain.StudySession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionStore) IncrementCardsStudied(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionStore) End(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	args := m.Called(ctx, id, endedAt)
	return args.Error(0)
}

func (m *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}

// ReviewStore is a mock of store.ReviewStore
type ReviewStore struct {
	mock.Mock
}

var _ store.ReviewStore = (*ReviewStore)(nil)

func (m *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *ReviewStore) ListByUserAndCards(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) ([]domain.Review, error) {
	args := m.Called(ctx, userID, cardIDs)
	if r, ok := args.Get(0).([]domain.Review); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return m
}
