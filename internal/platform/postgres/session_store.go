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

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx returns a new SessionStore instance that uses the provided transaction.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO study_sessions (id, user_id, deck_id, direction, started_at, ended_at, cards_studied)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.DeckID,
		nullDirection(session.Direction),
		session.StartedAt,
		session.EndedAt,
		session.CardsStudied,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("deck not found while creating session",
				slog.String("deck_id", session.DeckID.String()))
			return store.ErrDeckNotFound
		}
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("study session started",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("deck_id", session.DeckID.String()))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, deck_id, direction, started_at, ended_at, cards_studied
		FROM study_sessions
		WHERE id = $1
	`

	var session domain.StudySession
	var dir sql.NullString
	var endedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.DeckID,
		&dir,
		&session.StartedAt,
		&endedAt,
		&session.CardsStudied,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}

	if dir.Valid {
		d := domain.Direction(dir.String)
		session.Direction = &d
	}
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}

	return &session, nil
}

// IncrementCardsStudied implements store.SessionStore.IncrementCardsStudied
// Only open sessions are counted; the UPDATE also locks the row, so a
// concurrent End waits for the surrounding transaction.
// Returns domain.ErrSessionEnded if ended_at is set and
// store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) IncrementCardsStudied(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE study_sessions SET cards_studied = cards_studied + 1 WHERE id = $1 AND ended_at IS NULL`, id)
	if err != nil {
		log.Error("failed to increment cards studied",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrSessionNotFound); !errors.Is(err, store.ErrSessionNotFound) {
		return err
	}
	return s.whyNotOpen(ctx, id)
}

// End implements store.SessionStore.End
// Returns domain.ErrSessionEnded if ended_at is already set and
// store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) End(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE study_sessions SET ended_at = $2 WHERE id = $1 AND ended_at IS NULL`, id, endedAt)
	if err != nil {
		log.Error("failed to end session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err == nil {
		log.Info("study session ended", slog.String("session_id", id.String()))
		return nil
	} else if !errors.Is(err, store.ErrSessionNotFound) {
		return err
	}

	return s.whyNotOpen(ctx, id)
}

// whyNotOpen explains an UPDATE ... WHERE ended_at IS NULL that touched no
// rows: either the session is missing or already ended.
func (s *PostgresSessionStore) whyNotOpen(ctx context.Context, id uuid.UUID) error {
	var ended bool
	err := s.db.QueryRowContext(ctx,
		`SELECT ended_at IS NOT NULL FROM study_sessions WHERE id = $1`, id).Scan(&ended)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrSessionNotFound
	case err != nil:
		return MapError(err)
	case ended:
		return domain.ErrSessionEnded
	}
	// The row exists and is open again; only a concurrent writer could do that.
	return store.ErrTransactionConflict
}

func nullDirection(d *domain.Direction) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*d), Valid: true}
}
