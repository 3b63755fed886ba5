package study

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/domain/srs"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/service"
	"github.com/phrazzld/tandem-api/internal/store"
)

// Stores groups the persistence dependencies of the study service.
type Stores struct {
	Cards    store.CardStore
	Progress store.ProgressStore
	Sessions store.SessionStore
	Reviews  store.ReviewStore
}

// Option configures the study service.
type Option func(*serviceImpl)

// WithClock replaces time.Now as the source of review and session times.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db        *sql.DB
	stores    Stores
	access    *service.Access
	scheduler srs.Service
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new study Service.
func NewService(
	db *sql.DB,
	stores Stores,
	access *service.Access,
	scheduler srs.Service,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if stores.Cards == nil || stores.Progress == nil || stores.Sessions == nil || stores.Reviews == nil {
		panic("stores cannot be nil")
	}
	if access == nil {
		panic("access cannot be nil")
	}
	if scheduler == nil {
		scheduler = srs.NewDefaultService()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:        db,
		stores:    stores,
		access:    access,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "study_service")),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sessionDirections(dir *domain.Direction) ([]domain.Direction, error) {
	if dir == nil {
		return domain.Directions, nil
	}
	if !dir.IsValid() {
		return nil, domain.ErrInvalidDirection
	}
	return []domain.Direction{*dir}, nil
}

func (s *serviceImpl) StartSession(
	ctx context.Context,
	userID, deckID uuid.UUID,
	dir *domain.Direction,
) (*StartedSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.access.RequireView(ctx, userID, deckID); err != nil {
		return nil, service.Wrap("study", "start_session", err)
	}

	now := s.now()
	session, err := domain.NewStudySession(userID, deckID, dir, now)
	if err != nil {
		return nil, service.Wrap("study", "start_session", err)
	}

	if err := s.stores.Sessions.Create(ctx, session); err != nil {
		return nil, service.Wrap("study", "start_session", err)
	}

	due, err := s.stores.Progress.ListDue(ctx, userID, deckID, session.Directions(), now)
	if err != nil {
		return nil, service.Wrap("study", "start_session", err)
	}

	log.Debug("study session started",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("due", len(due)))

	return &StartedSession{Session: session, Due: due}, nil
}

func (s *serviceImpl) FetchDue(
	ctx context.Context,
	userID, deckID uuid.UUID,
	dir *domain.Direction,
) ([]domain.DueCard, error) {
	dirs, err := sessionDirections(dir)
	if err != nil {
		return nil, service.Wrap("study", "fetch_due", err)
	}

	if _, err := s.access.RequireView(ctx, userID, deckID); err != nil {
		return nil, service.Wrap("study", "fetch_due", err)
	}

	due, err := s.stores.Progress.ListDue(ctx, userID, deckID, dirs, s.now())
	if err != nil {
		return nil, service.Wrap("study", "fetch_due", err)
	}
	return due, nil
}

func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	req ReviewRequest,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", req.CardID.String()))

	if !req.Quality.IsValid() {
		log.Debug("invalid review quality", slog.Int("quality", int(req.Quality)))
		return nil, service.Wrap("study", "submit_review", domain.ErrInvalidQuality)
	}
	if req.Direction != nil && !req.Direction.IsValid() {
		return nil, service.Wrap("study", "submit_review", domain.ErrInvalidDirection)
	}

	card, err := s.stores.Cards.GetByID(ctx, req.CardID)
	if err != nil {
		return nil, service.Wrap("study", "submit_review", err)
	}

	if _, err := s.access.RequireView(ctx, userID, card.DeckID); err != nil {
		return nil, service.Wrap("study", "submit_review", err)
	}

	session, err := s.resolveSession(ctx, log, userID, card, req.SessionID)
	if err != nil {
		return nil, service.Wrap("study", "submit_review", err)
	}

	dir := domain.DirectionAToB
	switch {
	case req.Direction != nil:
		dir = *req.Direction
	case session != nil && session.Direction != nil:
		dir = *session.Direction
	}

	now := s.now()

	var sessionID *uuid.UUID
	if session != nil {
		id := session.ID
		sessionID = &id
	}

	review, err := domain.NewReview(userID, card.ID, sessionID, req.Quality, dir, req.TimeTaken, now)
	if err != nil {
		return nil, service.Wrap("study", "submit_review", err)
	}

	var (
		updated  *domain.Progress
		recorded *domain.Review
	)
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progressStore := s.stores.Progress.WithTx(tx)
		attempt := *review

		// The session may have ended since it was resolved. Counting it here
		// locks the row, so the check and the increment cannot race End.
		if session != nil {
			err := s.stores.Sessions.WithTx(tx).IncrementCardsStudied(ctx, session.ID)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrSessionEnded), errors.Is(err, store.ErrNotFound):
				s.warnUnlinked(log, session.ID, "session ended during review")
				attempt.SessionID = nil
			default:
				return err
			}
		}

		current, err := progressStore.GetOrCreateForUpdate(ctx, userID, card.ID, dir, now)
		if err != nil {
			return err
		}

		next, err := s.scheduler.CalculateNextReview(current, req.Quality, now)
		if err != nil {
			return err
		}

		if err := progressStore.Update(ctx, next); err != nil {
			return err
		}

		if err := s.stores.Reviews.WithTx(tx).Create(ctx, &attempt); err != nil {
			return err
		}

		updated = next
		recorded = &attempt
		return nil
	})
	if err != nil {
		log.Error("failed to record review", slog.String("error", err.Error()))
		return nil, service.Wrap("study", "submit_review", err)
	}

	log.Debug("review recorded",
		slog.String("direction", string(dir)),
		slog.Int("quality", int(req.Quality)),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Int("interval", updated.Interval),
		slog.Time("next_review", updated.NextReview))

	return &ReviewResult{
		Progress:      updated,
		Review:        recorded,
		SessionLinked: recorded.SessionID != nil,
	}, nil
}

// resolveSession returns the session a review should count toward, or nil
// when the reference is absent or unusable. Unusable references are logged
// at WARN; only storage failures are returned as errors.
func (s *serviceImpl) resolveSession(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	card *domain.Card,
	sessionID *uuid.UUID,
) (*domain.StudySession, error) {
	if sessionID == nil {
		return nil, nil
	}

	session, err := s.stores.Sessions.GetByID(ctx, *sessionID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		s.warnUnlinked(log, *sessionID, "session not found")
		return nil, nil
	}

	switch {
	case session.UserID != userID:
		s.warnUnlinked(log, *sessionID, "session belongs to another user")
		return nil, nil
	case session.DeckID != card.DeckID:
		s.warnUnlinked(log, *sessionID, "card is not in the session's deck")
		return nil, nil
	case !session.IsOpen():
		s.warnUnlinked(log, *sessionID, "session already ended")
		return nil, nil
	}

	return session, nil
}

func (s *serviceImpl) warnUnlinked(log *slog.Logger, sessionID uuid.UUID, reason string) {
	log.Warn("review recorded without session",
		slog.String("session_id", sessionID.String()),
		slog.String("reason", reason))
}

func (s *serviceImpl) EndSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.StudySession, error) {
	session, err := s.stores.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, service.Wrap("study", "end_session", err)
	}

	if session.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("end session denied",
			slog.String("user_id", userID.String()),
			slog.String("session_id", sessionID.String()))
		return nil, service.Wrap("study", "end_session", service.ErrPermissionDenied)
	}

	now := s.now()
	if err := session.End(now); err != nil {
		return nil, service.Wrap("study", "end_session", err)
	}

	if err := s.stores.Sessions.End(ctx, sessionID, now); err != nil {
		return nil, service.Wrap("study", "end_session", err)
	}

	return session, nil
}
