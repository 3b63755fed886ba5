package postgres

import (
	"context"
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

func TestPostgresReviewStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresReviewStore(db, nil)

	now := time.Now().UTC()
	sessionID := uuid.New()
	linked, err := domain.NewReview(uuid.New(), uuid.New(), &sessionID, domain.QualityPerfect, domain.DirectionAToB, 12, now)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(linked.ID, linked.UserID, linked.CardID, sessionID, 5, "A_TO_B", now, 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.Create(context.Background(), linked))

	unlinked, err := domain.NewReview(uuid.New(), uuid.New(), nil, domain.QualityBlackout, domain.DirectionBToA, 0, now)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(unlinked.ID, unlinked.UserID, unlinked.CardID, nil, 0, "B_TO_A", now, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.Create(context.Background(), unlinked))
}

func TestPostgresReviewStore_Create_Errors(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresReviewStore(db, nil)

	bad := &domain.Review{ID: uuid.New(), UserID: uuid.New(), CardID: uuid.New(), Quality: 9, Direction: domain.DirectionAToB}
	assert.ErrorIs(t, s.Create(context.Background(), bad), domain.ErrInvalidQuality)

	review, err := domain.NewReview(uuid.New(), uuid.New(), nil, domain.QualityCorrectDifficult, domain.DirectionAToB, 3, time.Now())
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WillReturnError(pgError(foreignKeyViolationCode))
	assert.ErrorIs(t, s.Create(context.Background(), review), store.ErrInvalidEntity)
}

func TestPostgresReviewStore_ListByUserAndCards(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresReviewStore(db, nil)

	userID, cardID, sessionID := uuid.New(), uuid.New(), uuid.New()
	r1, r2 := uuid.New(), uuid.New()
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	cols := []string{"id", "user_id", "card_id", "session_id", "quality", "direction", "reviewed_at", "time_taken"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews")).
		WithArgs(userID, uuidArray([]uuid.UUID{cardID})).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(r1.String(), userID.String(), cardID.String(), sessionID.String(), 4, "A_TO_B", at, 9).
			AddRow(r2.String(), userID.String(), cardID.String(), nil, 1, "B_TO_A", at.Add(time.Minute), 20))

	reviews, err := s.ListByUserAndCards(context.Background(), userID, []uuid.UUID{cardID})
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	require.NotNil(t, reviews[0].SessionID)
	assert.Equal(t, sessionID, *reviews[0].SessionID)
	assert.Equal(t, domain.QualityCorrectHesitant, reviews[0].Quality)
	assert.Nil(t, reviews[1].SessionID)
	assert.Equal(t, domain.DirectionBToA, reviews[1].Direction)
	assert.Equal(t, 20, reviews[1].TimeTaken)

	none, err := s.ListByUserAndCards(context.Background(), userID, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
