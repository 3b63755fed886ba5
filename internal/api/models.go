package api

import (
	"github.com/phrazzld/tandem-api/internal/domain"
)

// Request payloads. IDs arrive as strings and are checked by the validator
// before parsing; domain rules (quality range, title length, code format)
// are left to the services so every client sees the same error.

// DeckRequest is the payload for creating or updating a deck.
type DeckRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
}

// CardRequest is the payload for creating or updating a card.
type CardRequest struct {
	LanguageA     string `json:"language_a"      validate:"required"`
	LanguageB     string `json:"language_b"      validate:"required"`
	LanguageACode string `json:"language_a_code"`
	LanguageBCode string `json:"language_b_code"`
	Context       string `json:"context"`
}

// Content converts the request into card content.
func (r CardRequest) Content() domain.CardContent {
	return domain.CardContent{
		LanguageA:     r.LanguageA,
		LanguageB:     r.LanguageB,
		LanguageACode: r.LanguageACode,
		LanguageBCode: r.LanguageBCode,
		Context:       r.Context,
	}
}

// StartSessionRequest is the payload for POST /sessions.
type StartSessionRequest struct {
	DeckID    string `json:"deck_id"   validate:"required,uuid"`
	Direction string `json:"direction"`
}

// SubmitReviewRequest is the payload for POST /cards/{id}/reviews.
type SubmitReviewRequest struct {
	// Quality is a pointer so that an omitted grade is told apart from 0.
	Quality   *int   `json:"quality"    validate:"required"`
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
	Direction string `json:"direction"`
	TimeTaken int    `json:"time_taken"`
}

// RedeemInvitationRequest is the payload for POST /invitations/redeem.
type RedeemInvitationRequest struct {
	Code string `json:"code" validate:"required"`
}

// ShareDeckRequest is the payload for POST /partnerships/{id}/decks.
type ShareDeckRequest struct {
	DeckID string `json:"deck_id" validate:"required,uuid"`
}

// Responses

// DeckListResponse wraps a list of decks.
type DeckListResponse struct {
	Decks []domain.Deck `json:"decks"`
}

// CardListResponse wraps a list of cards.
type CardListResponse struct {
	Cards []domain.Card `json:"cards"`
}

// DueCardsResponse wraps the due list for a deck.
type DueCardsResponse struct {
	Due []domain.DueCard `json:"due"`
}

// PartnershipListResponse wraps a list of partnerships.
type PartnershipListResponse struct {
	Partnerships []domain.Partnership `json:"partnerships"`
}

// ReviewResponse is the result of a submitted review.
type ReviewResponse struct {
	Progress      *domain.Progress `json:"progress"`
	Review        *domain.Review   `json:"review"`
	SessionLinked bool             `json:"session_linked"`
}
