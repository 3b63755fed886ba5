// Package api exposes decks, study sessions, sharing and statistics over
// JSON HTTP. Handlers decode and validate requests, call a service, and map
// service errors to status codes; no business rule lives here.
package api
