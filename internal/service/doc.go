// Package service contains the application use cases for decks and cards
// and the permission resolver that the study, sharing and stats services
// share. Services coordinate domain objects with the store interfaces in
// internal/store and never depend on a concrete database.
//
// Errors returned by services are either part of the expected taxonomy
// (invalid input, not found, permission denied, conflicts) or wrapped as
// ErrInternal, so the HTTP layer can map them without inspecting messages.
// The study, sharing and stats use cases live in subpackages.
package service
