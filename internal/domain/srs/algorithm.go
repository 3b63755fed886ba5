package srs

import (
	"math"
	"time"

	"github.com/phrazzld/tandem-api/internal/domain"
)

// easeDelta returns the SM-2 ease adjustment for a quality rating:
//
//	0.1 - (5-q) * (0.08 + (5-q) * 0.02)
//
// The arithmetic is done in hundredths so that quality 4 yields exactly 0
// rather than a float64 residue.
//
//	q:     0      1      2      3     4    5
//	delta: -0.80  -0.54  -0.32  -0.14 0.00 +0.10
func easeDelta(quality domain.Quality) float64 {
	d := int(domain.QualityPerfect - quality)
	return float64(10-d*(8+2*d)) / 100
}

// calculateNewEaseFactor applies the SM-2 ease adjustment and the floor.
//
// Parameters:
//   - currentEF: the ease factor before this review
//   - quality: the recall quality, already validated to be in [0, 5]
//   - params: scheduler constants
//
// Returns:
//   - max(params.MinEaseFactor, currentEF + easeDelta(quality))
//
// The adjustment depends on quality only, never on the repetition count, so it
// applies identically to failed and successful reviews. For a fixed prior ease
// the result is non-decreasing in quality.
func calculateNewEaseFactor(currentEF float64, quality domain.Quality, params *Params) float64 {
	newEF := currentEF + easeDelta(quality)
	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// Parameters:
//   - currentInterval: the interval before this review
//   - repetitions: consecutive successful reviews before this review
//   - easeFactor: the ease factor before this review
//   - quality: the recall quality
//   - params: scheduler constants
//
// Algorithm behavior:
//   - a failed recall (quality below params.PassingQuality) resets to
//     params.FailureInterval
//   - the first success uses params.FirstInterval
//   - the second success uses params.SecondInterval
//   - later successes use round(currentInterval * easeFactor)
//
// Rounding is math.Round, i.e. half away from zero; since both operands are
// positive this is round-half-up (2.5 -> 3). The result is never below 1
// and never above params.MaxInterval, so a run of perfect reviews cannot push
// next_review past what storage can hold.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	quality domain.Quality,
	params *Params,
) int {
	if quality < params.PassingQuality {
		return params.FailureInterval
	}

	var interval float64
	switch repetitions {
	case 0:
		interval = float64(params.FirstInterval)
	case 1:
		interval = float64(params.SecondInterval)
	default:
		interval = math.Round(float64(currentInterval) * easeFactor)
	}

	// Clamp in float space so the int conversion cannot overflow.
	if params.MaxInterval > 0 && interval > float64(params.MaxInterval) {
		interval = float64(params.MaxInterval)
	}
	if interval < 1 {
		interval = 1
	}
	return int(interval)
}

// calculateNextReviewDate returns now shifted by interval calendar days.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// calculateNextProgress returns a new Progress describing the state after one
// review. The input is never modified.
//
// The interval for a success is computed from the prior repetitions and the
// prior ease factor; the ease factor is updated afterwards. Repetitions reset
// to 0 on failure and increment by 1 on success.
func calculateNextProgress(
	progress *domain.Progress,
	quality domain.Quality,
	now time.Time,
	params *Params,
) *domain.Progress {
	next := *progress

	next.Interval = calculateNewInterval(
		progress.Interval,
		progress.Repetitions,
		progress.EaseFactor,
		quality,
		params,
	)

	if quality < params.PassingQuality {
		next.Repetitions = 0
	} else {
		next.Repetitions = progress.Repetitions + 1
	}

	next.EaseFactor = calculateNewEaseFactor(progress.EaseFactor, quality, params)
	next.NextReview = calculateNextReviewDate(next.Interval, now)
	next.UpdatedAt = now

	return &next
}
