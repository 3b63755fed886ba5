package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/store"
)

// partnershipSelect loads partnerships together with their shared deck ids
// aggregated into a uuid[].
const partnershipSelect = `
	SELECT p.id, p.user_a, p.user_b, p.state, p.created_at, p.dissolved_at,
	       COALESCE(array_agg(pd.deck_id ORDER BY pd.deck_id)
	                FILTER (WHERE pd.deck_id IS NOT NULL), '{}'::uuid[]) AS deck_ids
	FROM partnerships p
	LEFT JOIN partnership_decks pd ON pd.partnership_id = p.id
`

const partnershipGroupBy = `
	GROUP BY p.id, p.user_a, p.user_b, p.state, p.created_at, p.dissolved_at
`

// PostgresPartnershipStore implements the store.PartnershipStore interface
// using a PostgreSQL database as the storage backend. Shared decks live in
// the partnership_decks join table.
type PostgresPartnershipStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPartnershipStore creates a new PostgreSQL implementation of the PartnershipStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPartnershipStore(db store.DBTX, logger *slog.Logger) *PostgresPartnershipStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPartnershipStore{
		db:     db,
		logger: logger.With(slog.String("component", "partnership_store")),
	}
}

// Ensure PostgresPartnershipStore implements store.PartnershipStore interface
var _ store.PartnershipStore = (*PostgresPartnershipStore)(nil)

// WithTx returns a new PartnershipStore instance that uses the provided transaction.
func (s *PostgresPartnershipStore) WithTx(tx *sql.Tx) store.PartnershipStore {
	return &PostgresPartnershipStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.PartnershipStore.Create
// Returns store.ErrPartnershipExists if the pair already has an active partnership.
func (s *PostgresPartnershipStore) Create(ctx context.Context, p *domain.Partnership) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		log.Warn("partnership validation failed during create",
			slog.String("error", err.Error()),
			slog.String("partnership_id", p.ID.String()))
		return err
	}

	query := `
		INSERT INTO partnerships (id, user_a, user_b, state, created_at, dissolved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, p.ID, p.UserA, p.UserB, string(p.State), p.CreatedAt, p.DissolvedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("active partnership already exists",
				slog.String("user_a", p.UserA.String()),
				slog.String("user_b", p.UserB.String()))
		} else {
			log.Error("failed to create partnership",
				slog.String("error", err.Error()),
				slog.String("partnership_id", p.ID.String()))
		}
		return MapUniqueViolation(err, store.ErrPartnershipExists)
	}

	for _, deckID := range p.DeckIDs {
		if err := s.AddDeck(ctx, p.ID, deckID); err != nil {
			return err
		}
	}

	log.Info("partnership created",
		slog.String("partnership_id", p.ID.String()),
		slog.String("user_a", p.UserA.String()),
		slog.String("user_b", p.UserB.String()))
	return nil
}

// GetByID implements store.PartnershipStore.GetByID
// Returns store.ErrPartnershipNotFound if it does not exist.
func (s *PostgresPartnershipStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Partnership, error) {
	query := partnershipSelect + ` WHERE p.id = $1 ` + partnershipGroupBy
	return s.getOne(ctx, query, id)
}

// GetActiveByPair implements store.PartnershipStore.GetActiveByPair
// The lookup is symmetric in a and b.
// Returns store.ErrPartnershipNotFound if the pair has no active partnership.
func (s *PostgresPartnershipStore) GetActiveByPair(ctx context.Context, a, b uuid.UUID) (*domain.Partnership, error) {
	query := partnershipSelect + `
		WHERE p.state = 'active'
		  AND ((p.user_a = $1 AND p.user_b = $2) OR (p.user_a = $2 AND p.user_b = $1))
	` + partnershipGroupBy
	return s.getOne(ctx, query, a, b)
}

// ListActiveByUser implements store.PartnershipStore.ListActiveByUser
func (s *PostgresPartnershipStore) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Partnership, error) {
	query := partnershipSelect + `
		WHERE p.state = 'active' AND (p.user_a = $1 OR p.user_b = $1)
	` + partnershipGroupBy + ` ORDER BY p.created_at ASC, p.id ASC`
	return s.list(ctx, query, userID)
}

// ListActiveByDeck implements store.PartnershipStore.ListActiveByDeck
// Each returned partnership carries its full set of shared decks.
func (s *PostgresPartnershipStore) ListActiveByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Partnership, error) {
	query := partnershipSelect + `
		WHERE p.state = 'active'
		  AND EXISTS (
		      SELECT 1 FROM partnership_decks x
		      WHERE x.partnership_id = p.id AND x.deck_id = $1
		  )
	` + partnershipGroupBy + ` ORDER BY p.created_at ASC, p.id ASC`
	return s.list(ctx, query, deckID)
}

// AddDeck implements store.PartnershipStore.AddDeck
// Adding a deck that is already shared is a no-op.
// Returns store.ErrInvalidEntity if the partnership or deck does not exist.
func (s *PostgresPartnershipStore) AddDeck(ctx context.Context, partnershipID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO partnership_decks (partnership_id, deck_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (partnership_id, deck_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, partnershipID, deckID, time.Now().UTC()); err != nil {
		log.Error("failed to share deck",
			slog.String("error", err.Error()),
			slog.String("partnership_id", partnershipID.String()),
			slog.String("deck_id", deckID.String()))
		return MapError(err)
	}

	log.Info("deck shared",
		slog.String("partnership_id", partnershipID.String()),
		slog.String("deck_id", deckID.String()))
	return nil
}

// RemoveDeck implements store.PartnershipStore.RemoveDeck
// Removing a deck that is not shared is a no-op.
func (s *PostgresPartnershipStore) RemoveDeck(ctx context.Context, partnershipID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM partnership_decks WHERE partnership_id = $1 AND deck_id = $2`,
		partnershipID, deckID)
	if err != nil {
		log.Error("failed to unshare deck",
			slog.String("error", err.Error()),
			slog.String("partnership_id", partnershipID.String()),
			slog.String("deck_id", deckID.String()))
		return MapError(err)
	}

	log.Info("deck unshared",
		slog.String("partnership_id", partnershipID.String()),
		slog.String("deck_id", deckID.String()))
	return nil
}

// Dissolve implements store.PartnershipStore.Dissolve
// p must already be in the dissolved state. The row is kept and its shared
// decks are cleared.
// Returns store.ErrPartnershipNotFound if no active partnership has p.ID.
func (s *PostgresPartnershipStore) Dissolve(ctx context.Context, p *domain.Partnership) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if p.IsActive() || p.DissolvedAt == nil {
		return domain.ErrPartnershipState
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE partnerships SET state = $2, dissolved_at = $3 WHERE id = $1 AND state = 'active'`,
		p.ID, string(p.State), *p.DissolvedAt)
	if err != nil {
		log.Error("failed to dissolve partnership",
			slog.String("error", err.Error()),
			slog.String("partnership_id", p.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrPartnershipNotFound); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM partnership_decks WHERE partnership_id = $1`, p.ID); err != nil {
		log.Error("failed to clear shared decks",
			slog.String("error", err.Error()),
			slog.String("partnership_id", p.ID.String()))
		return MapError(err)
	}

	log.Info("partnership dissolved", slog.String("partnership_id", p.ID.String()))
	return nil
}

func (s *PostgresPartnershipStore) getOne(ctx context.Context, query string, args ...any) (*domain.Partnership, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := scanPartnership(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPartnershipNotFound
		}
		log.Error("failed to get partnership", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return p, nil
}

func (s *PostgresPartnershipStore) list(ctx context.Context, query string, args ...any) ([]domain.Partnership, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query partnerships", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	partnerships := []domain.Partnership{}
	for rows.Next() {
		p, err := scanPartnership(rows)
		if err != nil {
			log.Error("failed to scan partnership row", slog.String("error", err.Error()))
			return nil, err
		}
		partnerships = append(partnerships, *p)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating partnership rows", slog.String("error", err.Error()))
		return nil, err
	}

	return partnerships, nil
}

func scanPartnership(row rowScanner) (*domain.Partnership, error) {
	var p domain.Partnership
	var state string
	var dissolvedAt sql.NullTime
	var deckIDs uuidList

	if err := row.Scan(
		&p.ID,
		&p.UserA,
		&p.UserB,
		&state,
		&p.CreatedAt,
		&dissolvedAt,
		&deckIDs,
	); err != nil {
		return nil, err
	}

	p.State = domain.PartnershipState(state)
	if dissolvedAt.Valid {
		t := dissolvedAt.Time
		p.DissolvedAt = &t
	}

	p.DeckIDs = []uuid.UUID(deckIDs)
	return &p, nil
}
