package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/api/shared"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/service/study"
)

// StudyHandler handles study session and review requests.
type StudyHandler struct {
	study  study.Service
	logger *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(svc study.Service, logger *slog.Logger) *StudyHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("study service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StudyHandler{
		study:  svc,
		logger: logger.With(slog.String("component", "study_handler")),
	}
}

// StartSession handles POST /sessions.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		HandleValidationError(w, r, err)
		return
	}
	dir, err := parseDirection(req.Direction)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	started, err := h.study.StartSession(r.Context(), userID, deckID, dir)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if started.Due == nil {
		started.Due = []domain.DueCard{}
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, started)
}

// DueCards handles GET /decks/{id}/due. The optional direction query
// parameter restricts the list to one direction.
func (h *StudyHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	dir, err := parseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	due, err := h.study.FetchDue(r.Context(), userID, deckID, dir)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if due == nil {
		due = []domain.DueCard{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{Due: due})
}

// SubmitReview handles POST /cards/{id}/reviews.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dir, err := parseDirection(req.Direction)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var sessionID *uuid.UUID
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			HandleValidationError(w, r, err)
			return
		}
		sessionID = &id
	}

	result, err := h.study.SubmitReview(r.Context(), userID, study.ReviewRequest{
		CardID:    cardID,
		Quality:   domain.Quality(*req.Quality),
		SessionID: sessionID,
		Direction: dir,
		TimeTaken: req.TimeTaken,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.Bool("session_linked", result.SessionLinked))

	shared.RespondWithJSON(w, r, http.StatusCreated, ReviewResponse{
		Progress:      result.Progress,
		Review:        result.Review,
		SessionLinked: result.SessionLinked,
	})
}

// EndSession handles POST /sessions/{id}/end.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	session, err := h.study.EndSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}
