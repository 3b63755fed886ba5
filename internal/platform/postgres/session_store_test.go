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

var sessionColumnNames = []string{"id", "user_id", "deck_id", "direction", "started_at", "ended_at", "cards_studied"}

func TestPostgresSessionStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresSessionStore(db, nil)

	dir := domain.DirectionAToB
	now := time.Now().UTC()
	session, err := domain.NewStudySession(uuid.New(), uuid.New(), &dir, now)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO study_sessions")).
		WithArgs(session.ID, session.UserID, session.DeckID, "A_TO_B", now, nil, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.Create(context.Background(), session))

	mixed, err := domain.NewStudySession(uuid.New(), uuid.New(), nil, now)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO study_sessions")).
		WithArgs(mixed.ID, mixed.UserID, mixed.DeckID, nil, now, nil, 0).
		WillReturnError(pgError(foreignKeyViolationCode))
	assert.ErrorIs(t, s.Create(context.Background(), mixed), store.ErrDeckNotFound)
}

func TestPostgresSessionStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresSessionStore(db, nil)

	id, userID, deckID := uuid.New(), uuid.New(), uuid.New()
	started := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	ended := started.Add(15 * time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("FROM study_sessions")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(sessionColumnNames).
			AddRow(id.String(), userID.String(), deckID.String(), nil, started, nil, 3))

	open, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, open.Direction)
	assert.Nil(t, open.EndedAt)
	assert.True(t, open.IsOpen())
	assert.Equal(t, 3, open.CardsStudied)

	mock.ExpectQuery(regexp.QuoteMeta("FROM study_sessions")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(sessionColumnNames).
			AddRow(id.String(), userID.String(), deckID.String(), "B_TO_A", started, ended, 10))

	closed, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, closed.Direction)
	assert.Equal(t, domain.DirectionBToA, *closed.Direction)
	require.NotNil(t, closed.EndedAt)
	assert.Equal(t, ended, *closed.EndedAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM study_sessions")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestPostgresSessionStore_IncrementCardsStudied(t *testing.T) {
	const increment = "SET cards_studied = cards_studied + 1 WHERE id = $1 AND ended_at IS NULL"
	const state = "SELECT ended_at IS NOT NULL FROM study_sessions WHERE id = $1"
	id := uuid.New()

	t.Run("open session", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresSessionStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta(increment)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.IncrementCardsStudied(context.Background(), id))
	})

	t.Run("ended session is not counted", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresSessionStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta(increment)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(state)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"ended"}).AddRow(true))

		assert.ErrorIs(t, s.IncrementCardsStudied(context.Background(), id), domain.ErrSessionEnded)
	})

	t.Run("missing session", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresSessionStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta(increment)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(state)).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		assert.ErrorIs(t, s.IncrementCardsStudied(context.Background(), id), store.ErrSessionNotFound)
	})
}

func TestPostgresSessionStore_End(t *testing.T) {
	id := uuid.New()
	endedAt := time.Now().UTC()

	t.Run("open session", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresSessionStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("SET ended_at = $2 WHERE id = $1 AND ended_at IS NULL")).
			WithArgs(id, endedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.End(context.Background(), id, endedAt))
	})

	t.Run("already ended", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresSessionStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE study_sessions SET ended_at")).
			WithArgs(id, endedAt).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT ended_at IS NOT NULL")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"ended"}).AddRow(true))

		assert.ErrorIs(t, s.End(context.Background(), id, endedAt), domain.ErrSessionEnded)
	})

	t.Run("missing session", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresSessionStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE study_sessions SET ended_at")).
			WithArgs(id, endedAt).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT ended_at IS NOT NULL")).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		assert.ErrorIs(t, s.End(context.Background(), id, endedAt), store.ErrSessionNotFound)
	})
}
