// Package domain holds the flashcard entities (decks, cards, per-direction
// progress, study sessions, reviews, partnerships and invitations), their
// validation rules and the deck permission rules. Nothing here touches I/O.
package domain
