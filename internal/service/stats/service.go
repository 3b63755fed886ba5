// Package stats resolves statistics scopes (one deck, a set of decks, or
// everything a user can reach) and feeds them to the aggregator. Results
// are cached briefly; a few seconds of staleness is acceptable.
package stats

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	domainstats "github.com/phrazzld/tandem-api/internal/domain/stats"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/service"
	"github.com/phrazzld/tandem-api/internal/store"
)

// Default cache settings
const (
	DefaultCacheTTL        = 5 * time.Second
	DefaultCacheMaxEntries = 10_000
)

// Service computes study statistics for a user.
type Service interface {
	// ForDeck returns Stats for one deck userID may view.
	ForDeck(ctx context.Context, userID, deckID uuid.UUID) (*domainstats.Stats, error)

	// ForDecks returns Stats over a set of decks userID may view.
	ForDecks(ctx context.Context, userID uuid.UUID, deckIDs []uuid.UUID) (*domainstats.Stats, error)

	// ForUser returns Stats over every deck userID can reach, split into
	// personal and shared parts.
	ForUser(ctx context.Context, userID uuid.UUID) (*domainstats.UserStats, error)

	// Close releases the cache.
	Close()
}

// Stores groups the persistence dependencies of the stats service.
type Stores struct {
	Cards    store.CardStore
	Reviews  store.ReviewStore
	Progress store.ProgressStore
}

// Config controls caching and calendar bucketing.
type Config struct {
	// CacheTTL is how long a result is served from cache. Zero disables
	// caching.
	CacheTTL        time.Duration
	CacheMaxEntries int64
	Aggregate       domainstats.Options
}

// Option configures the stats service.
type Option func(*serviceImpl)

// WithClock replaces time.Now as the as-of time.
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
	stores Stores
	access *service.Access
	cfg    Config
	cache  *ristretto.Cache[string, any]
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new stats Service.
func NewService(
	stores Stores,
	access *service.Access,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) (Service, error) {
	if stores.Cards == nil || stores.Reviews == nil || stores.Progress == nil {
		panic("stores cannot be nil")
	}
	if access == nil {
		panic("access cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		stores: stores,
		access: access,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "stats_service")),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.CacheTTL > 0 {
		maxEntries := cfg.CacheMaxEntries
		if maxEntries <= 0 {
			maxEntries = DefaultCacheMaxEntries
		}

		cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
			NumCounters: maxEntries * 10,
			MaxCost:     maxEntries,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stats cache: %w", err)
		}
		s.cache = cache
	}

	return s, nil
}

func (s *serviceImpl) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

func (s *serviceImpl) ForDeck(ctx context.Context, userID, deckID uuid.UUID) (*domainstats.Stats, error) {
	result, err := s.forDecks(ctx, userID, []uuid.UUID{deckID})
	if err != nil {
		return nil, service.Wrap("stats", "for_deck", err)
	}
	return result, nil
}

func (s *serviceImpl) ForDecks(ctx context.Context, userID uuid.UUID, deckIDs []uuid.UUID) (*domainstats.Stats, error) {
	result, err := s.forDecks(ctx, userID, deckIDs)
	if err != nil {
		return nil, service.Wrap("stats", "for_decks", err)
	}
	return result, nil
}

func (s *serviceImpl) forDecks(ctx context.Context, userID uuid.UUID, deckIDs []uuid.UUID) (*domainstats.Stats, error) {
	ids := uniqueSorted(deckIDs)

	// Permission is checked on every call, cached or not.
	for _, id := range ids {
		if _, err := s.access.RequireView(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	key := cacheKey("decks", userID, ids)
	if cached, ok := s.lookup(key); ok {
		if result, ok := cached.(domainstats.Stats); ok {
			return &result, nil
		}
	}

	in, err := s.load(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	result := domainstats.Aggregate(in, s.now(), s.cfg.Aggregate)
	s.store(key, result)
	return &result, nil
}

func (s *serviceImpl) ForUser(ctx context.Context, userID uuid.UUID) (*domainstats.UserStats, error) {
	// Resolve access before the cache so a dissolved partnership drops its
	// decks from the very next call.
	decks, err := s.access.AccessibleDecks(ctx, userID)
	if err != nil {
		return nil, service.Wrap("stats", "for_user", err)
	}

	ids := make([]uuid.UUID, len(decks))
	for i := range decks {
		ids[i] = decks[i].ID
	}

	key := cacheKey("user", userID, uniqueSorted(ids))
	if cached, ok := s.lookup(key); ok {
		if result, ok := cached.(domainstats.UserStats); ok {
			return &result, nil
		}
	}

	in, err := s.load(ctx, userID, ids)
	if err != nil {
		return nil, service.Wrap("stats", "for_user", err)
	}

	result := domainstats.AggregateUser(userID, decks, in, s.now(), s.cfg.Aggregate)

	logger.FromContextOrDefault(ctx, s.logger).Debug("computed user stats",
		slog.String("user_id", userID.String()),
		slog.Int("decks", result.TotalDecks),
		slog.Int("reviews", result.TotalReviews))

	s.store(key, result)
	return &result, nil
}

// load gathers the cards of deckIDs and userID's reviews and progress on them.
func (s *serviceImpl) load(ctx context.Context, userID uuid.UUID, deckIDs []uuid.UUID) (domainstats.Input, error) {
	if len(deckIDs) == 0 {
		return domainstats.Input{}, nil
	}

	cards, err := s.stores.Cards.ListByDecks(ctx, deckIDs)
	if err != nil {
		return domainstats.Input{}, err
	}
	if len(cards) == 0 {
		return domainstats.Input{Cards: cards}, nil
	}

	cardIDs := make([]uuid.UUID, len(cards))
	for i := range cards {
		cardIDs[i] = cards[i].ID
	}

	reviews, err := s.stores.Reviews.ListByUserAndCards(ctx, userID, cardIDs)
	if err != nil {
		return domainstats.Input{}, err
	}

	progress, err := s.stores.Progress.ListByUserAndCards(ctx, userID, cardIDs)
	if err != nil {
		return domainstats.Input{}, err
	}

	return domainstats.Input{Reviews: reviews, Cards: cards, Progress: progress}, nil
}

func (s *serviceImpl) lookup(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *serviceImpl) store(key string, value any) {
	if s.cache == nil {
		return
	}
	s.cache.SetWithTTL(key, value, 1, s.cfg.CacheTTL)
	s.cache.Wait()
}

func cacheKey(scope string, userID uuid.UUID, ids []uuid.UUID) string {
	var b strings.Builder
	b.WriteString(scope)
	b.WriteByte(':')
	b.WriteString(userID.String())
	for _, id := range ids {
		b.WriteByte(':')
		b.WriteString(id.String())
	}
	return b.String()
}

func uniqueSorted(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return slices.Compact(out)
}
