package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tandem-api/internal/api"
	"github.com/phrazzld/tandem-api/internal/api/middleware"
	"github.com/phrazzld/tandem-api/internal/config"
	"github.com/phrazzld/tandem-api/internal/domain/srs"
	domainstats "github.com/phrazzld/tandem-api/internal/domain/stats"
	"github.com/phrazzld/tandem-api/internal/platform/postgres"
	"github.com/phrazzld/tandem-api/internal/service"
	"github.com/phrazzld/tandem-api/internal/service/auth"
	"github.com/phrazzld/tandem-api/internal/service/sharing"
	"github.com/phrazzld/tandem-api/internal/service/stats"
	"github.com/phrazzld/tandem-api/internal/service/study"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	decks   service.DeckService
	cards   service.CardService
	study   study.Service
	sharing sharing.Service
	stats   stats.Service

	verifier *auth.HMACVerifier
}

// newApplication wires stores into services. It does not touch the
// database; db is only used once requests arrive.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.verifier, err = auth.NewHMACVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	deckStore := postgres.NewPostgresDeckStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	reviewStore := postgres.NewPostgresReviewStore(db, logger)
	partnershipStore := postgres.NewPostgresPartnershipStore(db, logger)
	invitationStore := postgres.NewPostgresInvitationStore(db, logger)

	access := service.NewAccess(deckStore, partnershipStore, logger)

	app.decks = service.NewDeckService(deckStore, access, logger)
	app.cards = service.NewCardService(cardStore, access, logger)

	app.study = study.NewService(db, study.Stores{
		Cards:    cardStore,
		Progress: progressStore,
		Sessions: sessionStore,
		Reviews:  reviewStore,
	}, access, srs.NewDefaultService(), logger)

	app.sharing = sharing.NewService(db, partnershipStore, invitationStore, access, sharing.Config{
		CodeAttempts:  cfg.Study.InvitationCodeAttempts,
		InvitationTTL: cfg.Study.InvitationTTL,
	}, logger)

	app.stats, err = stats.NewService(stats.Stores{
		Cards:    cardStore,
		Reviews:  reviewStore,
		Progress: progressStore,
	}, access, stats.Config{
		CacheTTL:        cfg.Study.StatsCacheTTL,
		CacheMaxEntries: cfg.Study.StatsCacheMaxEntries,
		Aggregate: domainstats.Options{
			WindowDays: cfg.Study.ActivityWindowDays,
			Location:   cfg.Study.Location(),
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// router builds the HTTP handler tree.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Decks:   api.NewDeckHandler(app.decks, app.cards, app.logger),
		Study:   api.NewStudyHandler(app.study, app.logger),
		Sharing: api.NewSharingHandler(app.sharing, app.logger),
		Stats:   api.NewStatsHandler(app.stats, app.logger),
		Auth:    middleware.NewAuthMiddleware(app.verifier),
		Health:  app.db,
		Logger:  app.logger,
	})
}

// serve runs the HTTP server until ctx is cancelled, then shuts down within
// the configured timeout.
func (app *application) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}

// cleanup releases resources owned by the application. The database is
// closed by its opener.
func (app *application) cleanup() {
	if app.stats != nil {
		app.stats.Close()
	}
	app.logger.Info("application shutdown completed")
}
