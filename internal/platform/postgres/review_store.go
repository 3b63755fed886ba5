package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/store"
)

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend. Reviews are
// append-only; there is no update or delete.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// WithTx returns a new ReviewStore instance that uses the provided transaction.
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReviewStore.Create
// Returns store.ErrInvalidEntity if the card or session does not exist.
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during create",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return err
	}

	query := `
		INSERT INTO reviews (id, user_id, card_id, session_id, quality, direction, reviewed_at, time_taken)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		review.ID,
		review.UserID,
		review.CardID,
		review.SessionID,
		int(review.Quality),
		review.Direction,
		review.ReviewedAt,
		review.TimeTaken,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during review creation",
				slog.String("error", err.Error()),
				slog.String("card_id", review.CardID.String()))
			return fmt.Errorf("%w: review references a missing card or session", store.ErrInvalidEntity)
		}
		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.String("review_id", review.ID.String()))
		return MapError(err)
	}

	log.Debug("review recorded",
		slog.String("review_id", review.ID.String()),
		slog.String("card_id", review.CardID.String()),
		slog.Int("quality", int(review.Quality)))
	return nil
}

// ListByUserAndCards implements store.ReviewStore.ListByUserAndCards
// Reviews come back in the order they happened.
func (s *PostgresReviewStore) ListByUserAndCards(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) ([]domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cardIDs) == 0 {
		return []domain.Review{}, nil
	}

	query := `
		SELECT id, user_id, card_id, session_id, quality, direction, reviewed_at, time_taken
		FROM reviews
		WHERE user_id = $1 AND card_id = ANY($2::uuid[])
		ORDER BY reviewed_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, uuidArray(cardIDs))
	if err != nil {
		log.Error("failed to query reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	reviews := []domain.Review{}
	for rows.Next() {
		var r domain.Review
		var sessionID uuid.NullUUID
		var quality int
		var dir string

		if err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.CardID,
			&sessionID,
			&quality,
			&dir,
			&r.ReviewedAt,
			&r.TimeTaken,
		); err != nil {
			log.Error("failed to scan review row", slog.String("error", err.Error()))
			return nil, err
		}

		if sessionID.Valid {
			id := sessionID.UUID
			r.SessionID = &id
		}
		r.Quality = domain.Quality(quality)
		r.Direction = domain.Direction(dir)
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating review rows", slog.String("error", err.Error()))
		return nil, err
	}

	return reviews, nil
}
