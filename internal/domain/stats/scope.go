package stats

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// Breakdown counts the decks and cards in one part of a user's library.
type Breakdown struct {
	TotalDecks int `json:"total_decks"`
	TotalCards int `json:"total_cards"`
}

// UserStats is Stats over every deck a user can reach, with the personal and
// shared parts counted separately. Personal.TotalDecks + Shared.TotalDecks
// equals TotalDecks.
type UserStats struct {
	Stats
	TotalDecks int       `json:"total_decks"`
	Personal   Breakdown `json:"personal"`
	Shared     Breakdown `json:"shared"`
}

// Partition splits decks into those userID owns or created and those reached
// only through a partnership. A deck listed more than once is kept once, and
// a deck the user owns is always personal even when it is also shared.
func Partition(decks []domain.Deck, userID uuid.UUID) (personal, shared []domain.Deck) {
	seen := make(map[uuid.UUID]struct{}, len(decks))
	for _, d := range decks {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}

		if d.IsOwnedBy(userID) {
			personal = append(personal, d)
		} else {
			shared = append(shared, d)
		}
	}
	return personal, shared
}

// CountCards returns how many of cards belong to decks.
func CountCards(decks []domain.Deck, cards []domain.Card) int {
	ids := make(map[uuid.UUID]struct{}, len(decks))
	for _, d := range decks {
		ids[d.ID] = struct{}{}
	}

	n := 0
	for i := range cards {
		if _, ok := ids[cards[i].DeckID]; ok {
			n++
		}
	}
	return n
}

// AggregateUser computes UserStats. decks is every deck the user can reach;
// in holds the cards of those decks and the user's reviews and progress.
func AggregateUser(
	userID uuid.UUID,
	decks []domain.Deck,
	in Input,
	asOf time.Time,
	opts Options,
) UserStats {
	personal, shared := Partition(decks, userID)

	return UserStats{
		Stats:      Aggregate(in, asOf, opts),
		TotalDecks: len(personal) + len(shared),
		Personal: Breakdown{
			TotalDecks: len(personal),
			TotalCards: CountCards(personal, in.Cards),
		},
		Shared: Breakdown{
			TotalDecks: len(shared),
			TotalCards: CountCards(shared, in.Cards),
		},
	}
}
