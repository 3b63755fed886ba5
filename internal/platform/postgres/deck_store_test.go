package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
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

var deckColumnNames = []string{"id", "owner_id", "creator_id", "title", "description", "created_at", "updated_at"}

func TestNewPostgresDeckStore(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresDeckStore(nil, nil) })

	db := &sql.DB{}
	s := NewPostgresDeckStore(db, nil)
	assert.Equal(t, db, s.db)
	assert.NotNil(t, s.logger)
}

func TestPostgresDeckStore_WithTx(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	s := NewPostgresDeckStore(db, nil)
	txStore, ok := s.WithTx(tx).(*PostgresDeckStore)
	require.True(t, ok)
	assert.Equal(t, tx, txStore.db)
	assert.Equal(t, s.logger, txStore.logger)
}

func TestPostgresDeckStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	deck, err := domain.NewDeck(uuid.New(), "Spanish verbs", "irregular")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO decks")).
		WithArgs(deck.ID, deck.OwnerID, deck.CreatorID, deck.Title, deck.Description, deck.CreatedAt, deck.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Create(context.Background(), deck))
}

func TestPostgresDeckStore_Create_Invalid(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	deck := &domain.Deck{ID: uuid.New(), OwnerID: uuid.New(), Title: "   "}
	err := s.Create(context.Background(), deck)
	assert.ErrorIs(t, err, domain.ErrDeckTitleEmpty)
}

func TestPostgresDeckStore_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	id, owner := uuid.New(), uuid.New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM decks WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(deckColumnNames).
			AddRow(id.String(), owner.String(), owner.String(), "Greek", "", now, now))

	deck, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, deck.ID)
	assert.Equal(t, owner, deck.OwnerID)
	assert.Equal(t, "Greek", deck.Title)
	assert.Equal(t, now, deck.CreatedAt)
}

func TestPostgresDeckStore_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM decks WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestPostgresDeckStore_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	deck, err := domain.NewDeck(uuid.New(), "Deck", "")
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE decks")).
		WithArgs(deck.ID, deck.OwnerID, deck.Title, deck.Description, deck.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Update(context.Background(), deck), store.ErrDeckNotFound)
}

func TestPostgresDeckStore_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM decks WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM decks WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(context.Background(), id))
	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrDeckNotFound)
}

func TestPostgresDeckStore_ListByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	owner := uuid.New()
	now := time.Now().UTC()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_id = $1 OR creator_id = $1")).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(deckColumnNames).
			AddRow(a.String(), owner.String(), owner.String(), "A", "", now, now).
			AddRow(b.String(), uuid.New().String(), owner.String(), "B", "", now, now))

	decks, err := s.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, a, decks[0].ID)
	assert.Equal(t, b, decks[1].ID)
}

func TestPostgresDeckStore_ListByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresDeckStore(db, nil)

	empty, err := s.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ANY($1::uuid[])")).
		WithArgs(uuidArray(ids)).
		WillReturnRows(sqlmock.NewRows(deckColumnNames))

	decks, err := s.ListByIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestArrayParams(t *testing.T) {
	t.Parallel()

	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	value := func(v driver.Valuer) driver.Value {
		got, err := v.Value()
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, "{}", value(uuidArray(nil)))
	assert.Equal(t, "{"+a.String()+","+b.String()+"}", value(uuidArray([]uuid.UUID{a, b})))
	assert.Equal(t, "{A_TO_B,B_TO_A}", value(directionArray(domain.Directions)))
}

func TestUUIDList_Scan(t *testing.T) {
	t.Parallel()

	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	var ids uuidList
	require.NoError(t, ids.Scan("{"+a.String()+","+b.String()+"}"))
	assert.Equal(t, uuidList{a, b}, ids)

	require.NoError(t, ids.Scan([]byte("{}")))
	assert.Empty(t, ids)

	require.NoError(t, ids.Scan(nil))
	assert.Empty(t, ids)

	assert.Error(t, ids.Scan("{not-a-uuid}"))
	assert.Error(t, ids.Scan("not an array"))
}
