package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/store"
)

const progressColumns = `user_id, card_id, direction, ease_factor, interval_days, repetitions, next_review, created_at, updated_at`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx returns a new ProgressStore instance that uses the provided transaction.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.ProgressStore.Get
// Returns store.ErrProgressNotFound if the triple has never been reviewed.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
	dir domain.Direction,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + progressColumns + `
		FROM progress
		WHERE user_id = $1 AND card_id = $2 AND direction = $3
	`
	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, cardID, dir))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()),
				slog.String("direction", string(dir)))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}

	return progress, nil
}

// GetOrCreateForUpdate implements store.ProgressStore.GetOrCreateForUpdate
// It seeds a default row when none exists and then locks the row with
// SELECT ... FOR UPDATE, so it must run inside a transaction for the lock
// to serialize concurrent reviews of the same triple.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresProgressStore) GetOrCreateForUpdate(
	ctx context.Context,
	userID, cardID uuid.UUID,
	dir domain.Direction,
	now time.Time,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	seed, err := domain.NewProgress(userID, cardID, dir, now)
	if err != nil {
		log.Warn("progress validation failed during get-or-create",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	insert := `
		INSERT INTO progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, card_id, direction) DO NOTHING
	`
	_, err = s.db.ExecContext(
		ctx,
		insert,
		seed.UserID,
		seed.CardID,
		seed.Direction,
		seed.EaseFactor,
		seed.Interval,
		seed.Repetitions,
		seed.NextReview,
		seed.CreatedAt,
		seed.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("card not found while seeding progress",
				slog.String("card_id", cardID.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to seed progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}

	query := `
		SELECT ` + progressColumns + `
		FROM progress
		WHERE user_id = $1 AND card_id = $2 AND direction = $3
		FOR UPDATE
	`
	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, cardID, dir))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Only possible if the card was deleted between the two statements.
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to lock progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}

	return progress, nil
}

// Update implements store.ProgressStore.Update
// Returns store.ErrProgressNotFound if the row does not exist.
func (s *PostgresProgressStore) Update(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", progress.CardID.String()))
		return err
	}

	query := `
		UPDATE progress
		SET ease_factor = $4, interval_days = $5, repetitions = $6,
		    next_review = $7, updated_at = $8
		WHERE user_id = $1 AND card_id = $2 AND direction = $3
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		progress.UserID,
		progress.CardID,
		progress.Direction,
		progress.EaseFactor,
		progress.Interval,
		progress.Repetitions,
		progress.NextReview,
		progress.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update progress",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("card_id", progress.CardID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProgressNotFound); err != nil {
		return err
	}

	log.Debug("progress updated",
		slog.String("user_id", progress.UserID.String()),
		slog.String("card_id", progress.CardID.String()),
		slog.String("direction", string(progress.Direction)),
		slog.Int("interval", progress.Interval),
		slog.Time("next_review", progress.NextReview))
	return nil
}

// ListByUserAndCards implements store.ProgressStore.ListByUserAndCards
func (s *PostgresProgressStore) ListByUserAndCards(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) ([]domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cardIDs) == 0 {
		return []domain.Progress{}, nil
	}

	query := `
		SELECT ` + progressColumns + `
		FROM progress
		WHERE user_id = $1 AND card_id = ANY($2::uuid[])
		ORDER BY card_id ASC, direction ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, uuidArray(cardIDs))
	if err != nil {
		log.Error("failed to query progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	list := []domain.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			log.Error("failed to scan progress row", slog.String("error", err.Error()))
			return nil, err
		}
		list = append(list, *p)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating progress rows", slog.String("error", err.Error()))
		return nil, err
	}

	return list, nil
}

// ListDue implements store.ProgressStore.ListDue
// Every (card, direction) pair in the deck is considered. Pairs with no
// progress row have never been reviewed and are due at the card's creation
// time. Results are ordered earliest-due first, then by card id and direction.
func (s *PostgresProgressStore) ListDue(
	ctx context.Context,
	userID, deckID uuid.UUID,
	dirs []domain.Direction,
	asOf time.Time,
) ([]domain.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(dirs) == 0 {
		dirs = domain.Directions
	}
	for _, d := range dirs {
		if !d.IsValid() {
			return nil, domain.ErrInvalidDirection
		}
	}

	query := `
		SELECT c.id, c.deck_id, c.language_a, c.language_b, c.language_a_code,
		       c.language_b_code, c.context, c.created_at, c.updated_at,
		       dir.direction,
		       COALESCE(p.next_review, c.created_at) AS due_at,
		       p.card_id IS NULL AS is_new
		FROM cards c
		CROSS JOIN unnest($3::text[]) AS dir(direction)
		LEFT JOIN progress p
		       ON p.card_id = c.id
		      AND p.user_id = $1
		      AND p.direction = dir.direction
		WHERE c.deck_id = $2
		  AND (p.card_id IS NULL OR p.next_review <= $4)
		ORDER BY due_at ASC, c.id ASC, dir.direction ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, deckID, directionArray(dirs), asOf)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	due := []domain.DueCard{}
	for rows.Next() {
		var item domain.DueCard
		var dir string
		err := rows.Scan(
			&item.Card.ID,
			&item.Card.DeckID,
			&item.Card.LanguageA,
			&item.Card.LanguageB,
			&item.Card.LanguageACode,
			&item.Card.LanguageBCode,
			&item.Card.Context,
			&item.Card.CreatedAt,
			&item.Card.UpdatedAt,
			&dir,
			&item.NextReview,
			&item.New,
		)
		if err != nil {
			log.Error("failed to scan due card row", slog.String("error", err.Error()))
			return nil, err
		}
		if item.Direction, err = domain.ParseDirection(dir); err != nil {
			return nil, fmt.Errorf("unexpected direction %q in due cards: %w", dir, err)
		}
		due = append(due, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating due card rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("due cards listed",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

func scanProgress(row rowScanner) (*domain.Progress, error) {
	var p domain.Progress
	var dir string
	err := row.Scan(
		&p.UserID,
		&p.CardID,
		&dir,
		&p.EaseFactor,
		&p.Interval,
		&p.Repetitions,
		&p.NextReview,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Direction = domain.Direction(dir)
	return &p, nil
}
