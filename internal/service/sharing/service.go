// Package sharing manages partnerships between users: invitation codes,
// redemption, deck sharing and dissolution.
package sharing

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/service"
	"github.com/phrazzld/tandem-api/internal/store"
)

// DefaultCodeAttempts bounds how many codes CreateInvitation tries before
// giving up.
const DefaultCodeAttempts = 10

// Service defines partnership and sharing operations.
type Service interface {
	// CreateInvitation issues a fresh invitation code for inviterID.
	CreateInvitation(ctx context.Context, inviterID uuid.UUID) (*domain.PartnershipInvitation, error)

	// RedeemInvitation accepts code on behalf of userID and returns the
	// active partnership between the inviter and userID, creating it when
	// none exists.
	RedeemInvitation(ctx context.Context, code string, userID uuid.UUID) (*domain.Partnership, error)

	// ListPartnerships returns the active partnerships userID belongs to.
	ListPartnerships(ctx context.Context, userID uuid.UUID) ([]domain.Partnership, error)

	// Dissolve ends a partnership. Shared decks stop being shared.
	Dissolve(ctx context.Context, userID, partnershipID uuid.UUID) (*domain.Partnership, error)

	// ShareDeck shares deckID through an active partnership. userID must be
	// a member and the deck's owner or creator.
	ShareDeck(ctx context.Context, userID, partnershipID, deckID uuid.UUID) (*domain.Partnership, error)

	// UnshareDeck stops sharing deckID through the partnership.
	UnshareDeck(ctx context.Context, userID, partnershipID, deckID uuid.UUID) (*domain.Partnership, error)

	// CanEdit and CanView resolve deck permissions from persisted state.
	CanEdit(ctx context.Context, userID, deckID uuid.UUID) (bool, error)
	CanView(ctx context.Context, userID, deckID uuid.UUID) (bool, error)
}

// Config holds sharing tunables.
type Config struct {
	CodeAttempts  int
	InvitationTTL time.Duration
}

// Option configures the sharing service.
type Option func(*serviceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCodeGenerator replaces RandomCode.
func WithCodeGenerator(gen CodeGenerator) Option {
	return func(s *serviceImpl) {
		if gen != nil {
			s.generate = gen
		}
	}
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db           *sql.DB
	partnerships store.PartnershipStore
	invitations  store.InvitationStore
	access       *service.Access
	cfg          Config
	logger       *slog.Logger
	now          func() time.Time
	generate     CodeGenerator
}

// NewService creates a new sharing Service.
func NewService(
	db *sql.DB,
	partnerships store.PartnershipStore,
	invitations store.InvitationStore,
	access *service.Access,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if partnerships == nil {
		panic("partnerships cannot be nil")
	}
	if invitations == nil {
		panic("invitations cannot be nil")
	}
	if access == nil {
		panic("access cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = DefaultCodeAttempts
	}
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = domain.DefaultInvitationTTL
	}

	s := &serviceImpl{
		db:           db,
		partnerships: partnerships,
		invitations:  invitations,
		access:       access,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "sharing_service")),
		now:          func() time.Time { return time.Now().UTC() },
		generate:     RandomCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) CreateInvitation(
	ctx context.Context,
	inviterID uuid.UUID,
) (*domain.PartnershipInvitation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("inviter_id", inviterID.String()))

	for attempt := 1; attempt <= s.cfg.CodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, service.Wrap("sharing", "create_invitation", err)
		}

		inv, err := domain.NewPartnershipInvitation(inviterID, code, s.now(), s.cfg.InvitationTTL)
		if err != nil {
			return nil, service.Wrap("sharing", "create_invitation", err)
		}

		err = s.invitations.Create(ctx, inv)
		if err == nil {
			log.Debug("invitation created", slog.Int("attempt", attempt))
			return inv, nil
		}
		if !errors.Is(err, store.ErrInvitationCodeExists) {
			return nil, service.Wrap("sharing", "create_invitation", err)
		}

		log.Debug("invitation code collision", slog.Int("attempt", attempt))
	}

	log.Error("exhausted invitation code attempts", slog.Int("attempts", s.cfg.CodeAttempts))
	return nil, service.Wrap("sharing", "create_invitation", service.ErrInternal)
}

func (s *serviceImpl) RedeemInvitation(
	ctx context.Context,
	code string,
	userID uuid.UUID,
) (*domain.Partnership, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()))

	code = strings.ToUpper(strings.TrimSpace(code))
	if !domain.IsValidInvitationCode(code) {
		return nil, service.Wrap("sharing", "redeem_invitation", domain.ErrInvitationCodeInvalid)
	}

	var partnership *domain.Partnership
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		invitations := s.invitations.WithTx(tx)
		partnerships := s.partnerships.WithTx(tx)
		now := s.now()

		inv, err := invitations.GetByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}

		if err := inv.Accept(userID, now); err != nil {
			return err
		}

		p, err := partnerships.GetActiveByPair(ctx, inv.InviterID, userID)
		switch {
		case err == nil:
			log.Debug("reusing active partnership", slog.String("partnership_id", p.ID.String()))
		case errors.Is(err, store.ErrNotFound):
			p, err = domain.NewPartnership(inv.InviterID, userID, now)
			if err != nil {
				return err
			}
			if err := partnerships.Create(ctx, p); err != nil {
				return err
			}
		default:
			return err
		}

		if err := invitations.MarkAccepted(ctx, inv); err != nil {
			return err
		}

		partnership = p
		return nil
	})
	if err != nil {
		var invErr *domain.InvitationError
		if errors.As(err, &invErr) {
			log.Info("invitation rejected", slog.String("reason", string(invErr.Reason)))
		}
		return nil, service.Wrap("sharing", "redeem_invitation", err)
	}

	log.Info("invitation redeemed", slog.String("partnership_id", partnership.ID.String()))
	return partnership, nil
}

func (s *serviceImpl) ListPartnerships(ctx context.Context, userID uuid.UUID) ([]domain.Partnership, error) {
	ps, err := s.partnerships.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, service.Wrap("sharing", "list_partnerships", err)
	}
	return ps, nil
}

// member loads a partnership and checks userID belongs to it.
func (s *serviceImpl) member(ctx context.Context, userID, partnershipID uuid.UUID) (*domain.Partnership, error) {
	p, err := s.partnerships.GetByID(ctx, partnershipID)
	if err != nil {
		return nil, err
	}
	if !p.HasMember(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("not a partnership member",
			slog.String("user_id", userID.String()),
			slog.String("partnership_id", partnershipID.String()))
		return nil, domain.ErrNotAMember
	}
	return p, nil
}

func (s *serviceImpl) Dissolve(ctx context.Context, userID, partnershipID uuid.UUID) (*domain.Partnership, error) {
	p, err := s.member(ctx, userID, partnershipID)
	if err != nil {
		return nil, service.Wrap("sharing", "dissolve", err)
	}

	if err := p.Dissolve(s.now()); err != nil {
		return nil, service.Wrap("sharing", "dissolve", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.partnerships.WithTx(tx).Dissolve(ctx, p)
	})
	if err != nil {
		return nil, service.Wrap("sharing", "dissolve", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("partnership dissolved",
		slog.String("partnership_id", p.ID.String()),
		slog.String("user_id", userID.String()))
	return p, nil
}

func (s *serviceImpl) ShareDeck(
	ctx context.Context,
	userID, partnershipID, deckID uuid.UUID,
) (*domain.Partnership, error) {
	p, err := s.member(ctx, userID, partnershipID)
	if err != nil {
		return nil, service.Wrap("sharing", "share_deck", err)
	}

	if !p.IsActive() {
		return nil, service.Wrap("sharing", "share_deck", domain.ErrPartnershipDissolved)
	}

	// Only the owner shares. Edit rights gained through one partnership
	// must not propagate into another.
	if _, err := s.access.RequireOwner(ctx, userID, deckID); err != nil {
		return nil, service.Wrap("sharing", "share_deck", err)
	}

	if err := p.AddDeck(deckID); err != nil {
		return nil, service.Wrap("sharing", "share_deck", err)
	}

	if err := s.partnerships.AddDeck(ctx, p.ID, deckID); err != nil {
		return nil, service.Wrap("sharing", "share_deck", err)
	}

	return p, nil
}

func (s *serviceImpl) UnshareDeck(
	ctx context.Context,
	userID, partnershipID, deckID uuid.UUID,
) (*domain.Partnership, error) {
	p, err := s.member(ctx, userID, partnershipID)
	if err != nil {
		return nil, service.Wrap("sharing", "unshare_deck", err)
	}

	if !p.IsActive() {
		return nil, service.Wrap("sharing", "unshare_deck", domain.ErrPartnershipDissolved)
	}

	p.RemoveDeck(deckID)
	if err := s.partnerships.RemoveDeck(ctx, p.ID, deckID); err != nil {
		return nil, service.Wrap("sharing", "unshare_deck", err)
	}

	return p, nil
}

func (s *serviceImpl) CanEdit(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
	ok, err := s.access.CanEdit(ctx, userID, deckID)
	if err != nil {
		return false, service.Wrap("sharing", "can_edit", err)
	}
	return ok, nil
}

func (s *serviceImpl) CanView(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
	ok, err := s.access.CanView(ctx, userID, deckID)
	if err != nil {
		return false, service.Wrap("sharing", "can_view", err)
	}
	return ok, nil
}
