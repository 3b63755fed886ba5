package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tandem-api/internal/domain"
)

// InvitationStore defines the interface for partnership invitation persistence.
type InvitationStore interface {
	// Create saves a new pending invitation.
	// Returns ErrInvitationCodeExists if the code is already taken.
	Create(ctx context.Context, inv *domain.PartnershipInvitation) error

	// GetByCodeForUpdate retrieves an invitation and locks it so it can be
	// redeemed at most once. Must run inside a transaction.
	// Returns ErrInvitationNotFound if the code is unknown.
	GetByCodeForUpdate(ctx context.Context, code string) (*domain.PartnershipInvitation, error)

	// MarkAccepted persists AcceptedBy and AcceptedAt.
	// Returns ErrInvitationNotFound if the invitation does not exist or was
	// accepted in the meantime.
	MarkAccepted(ctx context.Context, inv *domain.PartnershipInvitation) error

	// WithTx returns a new InvitationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) InvitationStore
}
