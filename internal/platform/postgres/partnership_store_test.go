package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var partnershipColumnNames = []string{"id", "user_a", "user_b", "state", "created_at", "dissolved_at", "deck_ids"}

func TestPostgresPartnershipStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresPartnershipStore(db, nil)

	now := time.Now().UTC()
	p, err := domain.NewPartnership(uuid.New(), uuid.New(), now)
	require.NoError(t, err)
	deckID := uuid.New()
	p.DeckIDs = []uuid.UUID{deckID}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO partnerships")).
		WithArgs(p.ID, p.UserA, p.UserB, "active", now, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO partnership_decks")).
		WithArgs(p.ID, deckID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Create(context.Background(), p))
}

func TestPostgresPartnershipStore_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresPartnershipStore(db, nil)

	p, err := domain.NewPartnership(uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO partnerships")).
		WillReturnError(pgError(uniqueViolationCode))

	err = s.Create(context.Background(), p)
	assert.ErrorIs(t, err, store.ErrPartnershipExists)
	assert.True(t, store.IsDuplicateError(err))
}

func TestPostgresPartnershipStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresPartnershipStore(db, nil)

	id, a, b := uuid.New(), uuid.New(), uuid.New()
	d1, d2 := uuid.New(), uuid.New()
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(partnershipColumnNames).
			AddRow(id.String(), a.String(), b.String(), "active", created, nil, "{"+d1.String()+","+d2.String()+"}"))

	p, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, p.IsActive())
	assert.Nil(t, p.DissolvedAt)
	assert.Equal(t, []uuid.UUID{d1, d2}, p.DeckIDs)
	assert.True(t, p.SharesDeck(d2))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrPartnershipNotFound)
}

func TestPostgresPartnershipStore_GetActiveByPair(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresPartnershipStore(db, nil)

	id, a, b := uuid.New(), uuid.New(), uuid.New()

	// Stored as (b, a); looked up as (a, b).
	mock.ExpectQuery(regexp.QuoteMeta("(p.user_a = $1 AND p.user_b = $2) OR (p.user_a = $2 AND p.user_b = $1)")).
		WithArgs(a, b).
		WillReturnRows(sqlmock.NewRows(partnershipColumnNames).
			AddRow(id.String(), b.String(), a.String(), "active", time.Now(), nil, "{}"))

	p, err := s.GetActiveByPair(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Empty(t, p.DeckIDs)

	partner, err := p.GetPartner(a)
	require.NoError(t, err)
	assert.Equal(t, b, partner)
}

func TestPostgresPartnershipStore_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresPartnershipStore(db, nil)

	userID, deckID := uuid.New(), uuid.New()
	p1, p2 := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.state = 'active' AND (p.user_a = $1 OR p.user_b = $1)")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(partnershipColumnNames).
			AddRow(p1.String(), userID.String(), uuid.New().String(), "active", now, nil, "{"+deckID.String()+"}").
			AddRow(p2.String(), uuid.New().String(), userID.String(), "active", now, nil, "{}"))

	byUser, err := s.ListActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.True(t, byUser[0].SharesDeck(deckID))
	assert.True(t, byUser[1].HasMember(userID))

	mock.ExpectQuery(regexp.QuoteMeta("x.deck_id = $1")).
		WithArgs(deckID).
		WillReturnRows(sqlmock.NewRows(partnershipColumnNames))

	byDeck, err := s.ListActiveByDeck(context.Background(), deckID)
	require.NoError(t, err)
	assert.NotNil(t, byDeck)
	assert.Empty(t, byDeck)
}

func TestPostgresPartnershipStore_RemoveDeck(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresPartnershipStore(db, nil)

	pid, deckID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM partnership_decks WHERE partnership_id = $1 AND deck_id = $2")).
		WithArgs(pid, deckID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.RemoveDeck(context.Background(), pid, deckID))
}

func TestPostgresPartnershipStore_AddDeck_MissingDeck(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresPartnershipStore(db, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO partnership_decks")).
		WillReturnError(pgError(foreignKeyViolationCode))

	assert.ErrorIs(t, s.AddDeck(context.Background(), uuid.New(), uuid.New()), store.ErrInvalidEntity)
}

func TestPostgresPartnershipStore_Dissolve(t *testing.T) {
	now := time.Now().UTC()

	t.Run("active partnership", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresPartnershipStore(db, nil)

		p, err := domain.NewPartnership(uuid.New(), uuid.New(), now)
		require.NoError(t, err)
		require.NoError(t, p.Dissolve(now))

		mock.ExpectExec(regexp.QuoteMeta("UPDATE partnerships SET state = $2, dissolved_at = $3")).
			WithArgs(p.ID, "dissolved", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM partnership_decks WHERE partnership_id = $1")).
			WithArgs(p.ID).
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, s.Dissolve(context.Background(), p))
	})

	t.Run("already dissolved in storage", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresPartnershipStore(db, nil)

		p, err := domain.NewPartnership(uuid.New(), uuid.New(), now)
		require.NoError(t, err)
		require.NoError(t, p.Dissolve(now))

		mock.ExpectExec(regexp.QuoteMeta("UPDATE partnerships")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Dissolve(context.Background(), p), store.ErrPartnershipNotFound)
	})

	t.Run("still active in memory", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresPartnershipStore(db, nil)

		p, err := domain.NewPartnership(uuid.New(), uuid.New(), now)
		require.NoError(t, err)

		assert.ErrorIs(t, s.Dissolve(context.Background(), p), domain.ErrPartnershipState)
	})
}
