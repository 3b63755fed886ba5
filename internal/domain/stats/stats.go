// Package stats reduces review history into summary study metrics.
//
// Aggregate is a pure function: callers resolve the scope (a deck, a set of
// decks, or everything a user can reach) and pass in the matching reviews,
// cards and progress rows. Nothing here touches storage.
package stats

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
)

// DefaultWindowDays is the length of the activity series when none is given.
const DefaultWindowDays = 7

// DateLayout formats DailyActivity.Date.
const DateLayout = "2006-01-02"

// DailyActivity is one calendar-day bucket of the activity series.
type DailyActivity struct {
	Date             string `json:"date"`
	CardsStudied     int    `json:"cards_studied"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// Stats summarises a scope at a point in time.
type Stats struct {
	TotalReviews   int             `json:"total_reviews"`
	TotalCards     int             `json:"total_cards"`
	AverageQuality float64         `json:"average_quality"`
	CardsDue       int             `json:"cards_due"`
	StudiedLast24h bool            `json:"studied_last_24h"`
	StreakDays     int             `json:"streak_days"`
	TimeSpent      int             `json:"time_spent_seconds"`
	Activity       []DailyActivity `json:"activity"`
}

// Input is the data for one scope. Reviews and Progress must already be
// restricted to the user and cards of interest.
type Input struct {
	Reviews  []domain.Review
	Cards    []domain.Card
	Progress []domain.Progress
}

// Options control calendar bucketing.
type Options struct {
	// WindowDays is the number of trailing days in the activity series,
	// including the day containing asOf. Non-positive means DefaultWindowDays.
	WindowDays int

	// Location defines calendar-day boundaries. Nil means UTC.
	Location *time.Location
}

func (o Options) normalize() Options {
	if o.WindowDays <= 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// Aggregate computes Stats for in as of asOf.
//
// Reviews stamped after asOf are ignored. A card counts as due when any of
// its directions has progress due at asOf or has never been reviewed.
// CardsStudied in the activity series counts review events, matching how a
// study session's cards_studied counter advances.
func Aggregate(in Input, asOf time.Time, opts Options) Stats {
	opts = opts.normalize()
	local := asOf.In(opts.Location)
	today := dayStart(local)

	s := Stats{
		TotalCards: len(in.Cards),
		CardsDue:   countDue(in.Cards, in.Progress, asOf),
		Activity:   make([]DailyActivity, opts.WindowDays),
	}

	first := today.AddDate(0, 0, -(opts.WindowDays - 1))
	for i := range s.Activity {
		s.Activity[i].Date = first.AddDate(0, 0, i).Format(DateLayout)
	}

	studiedDays := make(map[string]struct{})
	qualitySum := 0
	since := asOf.Add(-24 * time.Hour)

	for i := range in.Reviews {
		r := &in.Reviews[i]
		if r.ReviewedAt.After(asOf) {
			continue
		}

		s.TotalReviews++
		s.TimeSpent += r.TimeTaken
		qualitySum += int(r.Quality)

		if r.ReviewedAt.After(since) {
			s.StudiedLast24h = true
		}

		day := dayStart(r.ReviewedAt.In(opts.Location))
		studiedDays[day.Format(DateLayout)] = struct{}{}

		if idx := daysBetween(first, day); idx >= 0 && idx < opts.WindowDays {
			s.Activity[idx].CardsStudied++
			s.Activity[idx].TimeSpentSeconds += r.TimeTaken
		}
	}

	if s.TotalReviews > 0 {
		s.AverageQuality = float64(qualitySum) / float64(s.TotalReviews)
	}

	s.StreakDays = streak(studiedDays, today)

	return s
}

// countDue counts cards with at least one due direction.
func countDue(cards []domain.Card, progress []domain.Progress, asOf time.Time) int {
	type key struct {
		card uuid.UUID
		dir  domain.Direction
	}

	byKey := make(map[key]*domain.Progress, len(progress))
	for i := range progress {
		p := &progress[i]
		byKey[key{p.CardID, p.Direction}] = p
	}

	due := 0
	for i := range cards {
		for _, dir := range domain.Directions {
			p, ok := byKey[key{cards[i].ID, dir}]
			if !ok || p.IsDue(asOf) {
				due++
				break
			}
		}
	}
	return due
}

// streak counts consecutive studied days ending today, or ending yesterday
// when nothing has been studied yet today.
func streak(studied map[string]struct{}, today time.Time) int {
	day := today
	if _, ok := studied[day.Format(DateLayout)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	n := 0
	for {
		if _, ok := studied[day.Format(DateLayout)]; !ok {
			return n
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween returns the number of calendar days from a to b, negative when
// b is earlier. Dates are compared on a UTC grid so DST shifts do not matter.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
