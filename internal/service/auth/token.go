// Package auth verifies bearer tokens issued by the identity provider in
// front of the API. Registration and login live elsewhere; this package only
// turns a token into the acting user's ID.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	// ValidateToken checks the signature and time claims of tokenString and
	// returns its claims. The subject must be a user UUID.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the verified contents of a token.
type Claims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
