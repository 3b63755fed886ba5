package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/api/shared"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/platform/logger"
	"github.com/phrazzld/tandem-api/internal/service/sharing"
)

// SharingHandler handles invitation and partnership requests.
type SharingHandler struct {
	sharing sharing.Service
	logger  *slog.Logger
}

// NewSharingHandler creates a new SharingHandler.
func NewSharingHandler(svc sharing.Service, logger *slog.Logger) *SharingHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sharing service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SharingHandler{
		sharing: svc,
		logger:  logger.With(slog.String("component", "sharing_handler")),
	}
}

// CreateInvitation handles POST /invitations.
func (h *SharingHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	inv, err := h.sharing.CreateInvitation(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, inv)
}

// RedeemInvitation handles POST /invitations/redeem.
func (h *SharingHandler) RedeemInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req RedeemInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.sharing.RedeemInvitation(r.Context(), req.Code, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, p)
}

// ListPartnerships handles GET /partnerships.
func (h *SharingHandler) ListPartnerships(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	ps, err := h.sharing.ListPartnerships(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if ps == nil {
		ps = []domain.Partnership{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PartnershipListResponse{Partnerships: ps})
}

// Dissolve handles POST /partnerships/{id}/dissolve.
func (h *SharingHandler) Dissolve(w http.ResponseWriter, r *http.Request) {
	userID, partnershipID, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	p, err := h.sharing.Dissolve(r.Context(), userID, partnershipID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, p)
}

// ShareDeck handles POST /partnerships/{id}/decks.
func (h *SharingHandler) ShareDeck(w http.ResponseWriter, r *http.Request) {
	userID, partnershipID, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req ShareDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		HandleValidationError(w, r, err)
		return
	}

	p, err := h.sharing.ShareDeck(r.Context(), userID, partnershipID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, p)
}

// UnshareDeck handles DELETE /partnerships/{id}/decks/{deckID}.
func (h *SharingHandler) UnshareDeck(w http.ResponseWriter, r *http.Request) {
	userID, partnershipID, ok := handleUserIDAndPathUUID(w, r, "id", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	deckID, err := getPathUUID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	p, err := h.sharing.UnshareDeck(r.Context(), userID, partnershipID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, p)
}
