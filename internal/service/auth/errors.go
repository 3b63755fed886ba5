package auth

import "errors"

// Token verification errors
var (
	// ErrInvalidToken indicates the token format is invalid, the signature
	// doesn't match, or the subject is not a user ID.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
)
