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

// PostgresInvitationStore implements the store.InvitationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInvitationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInvitationStore creates a new PostgreSQL implementation of the InvitationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresInvitationStore(db store.DBTX, logger *slog.Logger) *PostgresInvitationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInvitationStore{
		db:     db,
		logger: logger.With(slog.String("component", "invitation_store")),
	}
}

// Ensure PostgresInvitationStore implements store.InvitationStore interface
var _ store.InvitationStore = (*PostgresInvitationStore)(nil)

// WithTx returns a new InvitationStore instance that uses the provided transaction.
func (s *PostgresInvitationStore) WithTx(tx *sql.Tx) store.InvitationStore {
	return &PostgresInvitationStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.InvitationStore.Create
// Returns store.ErrInvitationCodeExists if the code is taken.
func (s *PostgresInvitationStore) Create(ctx context.Context, inv *domain.PartnershipInvitation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := inv.Validate(); err != nil {
		log.Warn("invitation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("inviter_id", inv.InviterID.String()))
		return err
	}

	query := `
		INSERT INTO partnership_invitations (code, inviter_id, created_at, expires_at, accepted_by, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		inv.Code,
		inv.InviterID,
		inv.CreatedAt,
		inv.ExpiresAt,
		inv.AcceptedBy,
		inv.AcceptedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("invitation code collision", slog.String("code", inv.Code))
		} else {
			log.Error("failed to create invitation",
				slog.String("error", err.Error()),
				slog.String("inviter_id", inv.InviterID.String()))
		}
		return MapUniqueViolation(err, store.ErrInvitationCodeExists)
	}

	log.Info("invitation created",
		slog.String("code", inv.Code),
		slog.String("inviter_id", inv.InviterID.String()),
		slog.Time("expires_at", inv.ExpiresAt))
	return nil
}

// GetByCodeForUpdate implements store.InvitationStore.GetByCodeForUpdate
// The row stays locked until the surrounding transaction ends.
// Returns store.ErrInvitationNotFound if no invitation has the code.
func (s *PostgresInvitationStore) GetByCodeForUpdate(
	ctx context.Context,
	code string,
) (*domain.PartnershipInvitation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT code, inviter_id, created_at, expires_at, accepted_by, accepted_at
		FROM partnership_invitations
		WHERE code = $1
		FOR UPDATE
	`

	var inv domain.PartnershipInvitation
	var acceptedBy uuid.NullUUID
	var acceptedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&inv.Code,
		&inv.InviterID,
		&inv.CreatedAt,
		&inv.ExpiresAt,
		&acceptedBy,
		&acceptedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("invitation not found", slog.String("code", code))
			return nil, store.ErrInvitationNotFound
		}
		log.Error("failed to get invitation",
			slog.String("error", err.Error()),
			slog.String("code", code))
		return nil, MapError(err)
	}

	if acceptedBy.Valid {
		id := acceptedBy.UUID
		inv.AcceptedBy = &id
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		inv.AcceptedAt = &t
	}

	return &inv, nil
}

// MarkAccepted implements store.InvitationStore.MarkAccepted
// It writes accepted_by and accepted_at only when they are still unset.
// Returns store.ErrInvitationNotFound if no pending invitation has the code.
func (s *PostgresInvitationStore) MarkAccepted(ctx context.Context, inv *domain.PartnershipInvitation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if inv.AcceptedBy == nil || inv.AcceptedAt == nil {
		return domain.ErrInvalidInvitation
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE partnership_invitations
		SET accepted_by = $2, accepted_at = $3
		WHERE code = $1 AND accepted_by IS NULL
	`, inv.Code, *inv.AcceptedBy, *inv.AcceptedAt)
	if err != nil {
		log.Error("failed to mark invitation accepted",
			slog.String("error", err.Error()),
			slog.String("code", inv.Code))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrInvitationNotFound); err != nil {
		return err
	}

	log.Info("invitation accepted",
		slog.String("code", inv.Code),
		slog.String("accepted_by", inv.AcceptedBy.String()))
	return nil
}
