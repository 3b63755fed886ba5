package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tandem-api/internal/api/shared"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/phrazzld/tandem-api/internal/service"
	"github.com/phrazzld/tandem-api/internal/service/auth"
	"github.com/phrazzld/tandem-api/internal/store"
)

// ErrUnauthorized is used when a protected handler runs without a user.
var ErrUnauthorized = errors.New("unauthorized")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// ErrInternal wraps the cause, so check it before the taxonomy.
	case errors.Is(err, service.ErrInternal):
		return http.StatusInternalServerError

	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, domain.ErrNotAMember):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidInvitation),
		errors.Is(err, domain.ErrPartnershipDissolved),
		errors.Is(err, domain.ErrSessionEnded),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var invErr *domain.InvitationError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Authentication required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrInternal):
		return "An unexpected error occurred"

	case errors.Is(err, service.ErrPermissionDenied):
		return "You do not have access to this deck"
	case errors.Is(err, domain.ErrNotAMember):
		return "You are not a member of this partnership"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, store.ErrSessionNotFound):
		return "Study session not found"
	case errors.Is(err, store.ErrPartnershipNotFound):
		return "Partnership not found"
	case errors.Is(err, store.ErrInvitationNotFound):
		return "Invitation not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.As(err, &invErr):
		switch invErr.Reason {
		case domain.InvitationExpired:
			return "Invitation has expired"
		case domain.InvitationAlreadyAccepted:
			return "Invitation has already been used"
		case domain.InvitationSelfRedeem:
			return "You cannot redeem your own invitation"
		}
		return "Invitation cannot be redeemed"
	case errors.Is(err, domain.ErrPartnershipDissolved):
		return "Partnership has been dissolved"
	case errors.Is(err, domain.ErrSessionEnded):
		return "Study session has already ended"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	// Domain validation errors carry a safe message of the form
	// "invalid input: <detail>".
	case errors.Is(err, domain.ErrInvalidInput):
		return validationDetail(err)
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"

	default:
		return "An unexpected error occurred"
	}
}

// validationDetail extracts the text after the innermost "invalid input: "
// prefix. Wrapping by services only adds prefixes, never suffixes.
func validationDetail(err error) string {
	msg := err.Error()
	prefix := domain.ErrInvalidInput.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		detail := msg[i+len(prefix):]
		if detail != "" {
			return strings.ToUpper(detail[:1]) + detail[1:]
		}
	}
	return "Invalid input"
}

// invitationReason returns the machine-readable rejection reason, if any.
func invitationReason(err error) string {
	var invErr *domain.InvitationError
	if errors.As(err, &invErr) {
		return string(invErr.Reason)
	}
	return ""
}

// HandleAPIError writes the error response for err. An empty message means
// GetSafeErrorMessage(err).
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if reason := invitationReason(err); reason != "" {
		opts = append(opts, shared.WithReason(reason))
	}
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// HandleValidationError writes a 400 for a request that failed decoding or
// struct validation.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	if errors.Is(err, shared.ErrEmptyBody) {
		return "Request body is required"
	}

	if errors.Is(err, domain.ErrInvalidInput) {
		return validationDetail(err)
	}

	return "Invalid request format"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "must be a UUID"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "len":
		return "wrong length"
	case "oneof":
		return "invalid value"
	case "alphanum":
		return "must be letters and digits"
	default:
		return "validation failed"
	}
}
