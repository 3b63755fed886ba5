package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/store"
)

const deckColumns = `id, owner_id, creator_id, title, description, created_at, updated_at`

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx returns a new DeckStore instance that uses the provided transaction.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DeckStore.Create
// Returns validation errors from the domain Deck if data is invalid.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	query := `
		INSERT INTO decks (id, owner_id, creator_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		deck.ID,
		deck.OwnerID,
		deck.CreatorID,
		deck.Title,
		deck.Description,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()),
			slog.String("owner_id", deck.OwnerID.String()))
		return MapError(err)
	}

	log.Info("deck created successfully",
		slog.String("deck_id", deck.ID.String()),
		slog.String("owner_id", deck.OwnerID.String()))
	return nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.String("deck_id", id.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, MapError(err)
	}

	return deck, nil
}

// Update implements store.DeckStore.Update
// Title, description and owner are written; creator and created_at never change.
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during update",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	query := `
		UPDATE decks
		SET owner_id = $2, title = $3, description = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		deck.ID,
		deck.OwnerID,
		deck.Title,
		deck.Description,
		deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		log.Debug("deck not found for update", slog.String("deck_id", deck.ID.String()))
		return err
	}

	log.Info("deck updated successfully", slog.String("deck_id", deck.ID.String()))
	return nil
}

// Delete implements store.DeckStore.Delete
// Cards, progress, reviews, sessions and share links go with it through
// ON DELETE CASCADE.
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		log.Debug("deck not found for deletion", slog.String("deck_id", id.String()))
		return err
	}

	log.Info("deck deleted successfully", slog.String("deck_id", id.String()))
	return nil
}

// ListByOwner implements store.DeckStore.ListByOwner
// A deck is listed when the user is its owner or its creator.
func (s *PostgresDeckStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE owner_id = $1 OR creator_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return s.list(ctx, query, userID)
}

// ListByIDs implements store.DeckStore.ListByIDs
// Unknown IDs are skipped.
func (s *PostgresDeckStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Deck, error) {
	if len(ids) == 0 {
		return []domain.Deck{}, nil
	}

	query := `
		SELECT ` + deckColumns + `
		FROM decks
		WHERE id = ANY($1::uuid[])
		ORDER BY created_at ASC, id ASC
	`
	return s.list(ctx, query, uuidArray(ids))
}

func (s *PostgresDeckStore) list(ctx context.Context, query string, args ...any) ([]domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query decks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	decks := []domain.Deck{}
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row", slog.String("error", err.Error()))
			return nil, err
		}
		decks = append(decks, *deck)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating deck rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("decks listed", slog.Int("count", len(decks)))
	return decks, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var deck domain.Deck
	err := row.Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.CreatorID,
		&deck.Title,
		&deck.Description,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &deck, nil
}
