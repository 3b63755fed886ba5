package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tandem-api/internal/api/middleware"
	"github.com/phrazzld/tandem-api/internal/api/shared"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig holds everything NewRouter mounts.
type RouterConfig struct {
	Decks   *DeckHandler
	Study   *StudyHandler
	Sharing *SharingHandler
	Stats   *StatsHandler
	Auth    *middleware.AuthMiddleware

	// Health is pinged by GET /health. Nil means always healthy.
	Health Pinger
	Logger *slog.Logger
}

// NewRouter builds the HTTP routing tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewTraceMiddleware(cfg.Logger))
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth.Authenticate)

			r.Get("/decks", cfg.Decks.ListDecks)
			r.Post("/decks", cfg.Decks.CreateDeck)
			r.Get("/decks/{id}", cfg.Decks.GetDeck)
			r.Put("/decks/{id}", cfg.Decks.UpdateDeck)
			r.Delete("/decks/{id}", cfg.Decks.DeleteDeck)
			r.Get("/decks/{id}/cards", cfg.Decks.ListCards)
			r.Post("/decks/{id}/cards", cfg.Decks.CreateCard)
			r.Get("/decks/{id}/due", cfg.Study.DueCards)

			r.Get("/cards/{id}", cfg.Decks.GetCard)
			r.Put("/cards/{id}", cfg.Decks.UpdateCard)
			r.Delete("/cards/{id}", cfg.Decks.DeleteCard)
			r.Post("/cards/{id}/reviews", cfg.Study.SubmitReview)

			r.Post("/sessions", cfg.Study.StartSession)
			r.Post("/sessions/{id}/end", cfg.Study.EndSession)

			r.Post("/invitations", cfg.Sharing.CreateInvitation)
			r.Post("/invitations/redeem", cfg.Sharing.RedeemInvitation)
			r.Get("/partnerships", cfg.Sharing.ListPartnerships)
			r.Post("/partnerships/{id}/dissolve", cfg.Sharing.Dissolve)
			r.Post("/partnerships/{id}/decks", cfg.Sharing.ShareDeck)
			r.Delete("/partnerships/{id}/decks/{deckID}", cfg.Sharing.UnshareDeck)

			r.Get("/stats", cfg.Stats.GetStats)
		})
	})

	r.Get("/health", healthHandler(cfg.Health))

	return r
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.PingContext(ctx); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
