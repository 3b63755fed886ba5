package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tandem-api/internal/api/shared"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/service/stats"
)

// StatsHandler serves study statistics.
type StatsHandler struct {
	stats  stats.Service
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc stats.Service, logger *slog.Logger) *StatsHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stats service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsHandler{
		stats:  svc,
		logger: logger.With(slog.String("component", "stats_handler")),
	}
}

// GetStats handles GET /stats.
//
// Without deck_id the response covers every deck the user can reach, split
// into personal and shared. One deck_id gives that deck's stats; several
// (repeated deck_id parameters) give the combined stats of the set.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	deckIDs, err := parseUUIDs(r.URL.Query()["deck_id"], "deck_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	switch len(deckIDs) {
	case 0:
		s, err := h.stats.ForUser(r.Context(), userID)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, s)
	case 1:
		s, err := h.stats.ForDeck(r.Context(), userID, deckIDs[0])
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, s)
	default:
		s, err := h.stats.ForDecks(r.Context(), userID, deckIDs)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, s)
	}
}
