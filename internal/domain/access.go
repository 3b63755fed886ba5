package domain

import "github.com/google/uuid"

// CanEdit reports whether userID may edit deck. partnerships are the
// partnerships the deck is shared through; inactive ones are ignored.
//
// Rules, in order: the creator may edit; the owner may edit; a member of an
// active partnership sharing the deck may edit; everyone else is denied.
func CanEdit(deck *Deck, userID uuid.UUID, partnerships []Partnership) bool {
	if deck == nil || userID == uuid.Nil {
		return false
	}

	if deck.CreatorID == userID || deck.OwnerID == userID {
		return true
	}

	for i := range partnerships {
		p := &partnerships[i]
		if p.IsActive() && p.SharesDeck(deck.ID) && p.HasMember(userID) {
			return true
		}
	}

	return false
}

// CanView reports whether userID may view deck. It currently grants exactly
// what CanEdit grants; read-only sharing is not modelled yet.
func CanView(deck *Deck, userID uuid.UUID, partnerships []Partnership) bool {
	return CanEdit(deck, userID, partnerships)
}

// IsShared reports whether deck is shared through any active partnership.
func IsShared(deck *Deck, partnerships []Partnership) bool {
	for i := range partnerships {
		if partnerships[i].IsActive() && partnerships[i].SharesDeck(deck.ID) {
			return true
		}
	}
	return false
}
