package srs

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tandem-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaseDelta(t *testing.T) {
	t.Parallel()

	expected := map[domain.Quality]float64{
		domain.QualityBlackout:          -0.80,
		domain.QualityIncorrectFamiliar: -0.54,
		domain.QualityIncorrectEasy:     -0.32,
		domain.QualityCorrectDifficult:  -0.14,
		domain.QualityCorrectHesitant:   0,
		domain.QualityPerfect:           0.10,
	}

	for q, want := range expected {
		assert.InDelta(t, want, easeDelta(q), 1e-9, "quality %d", q)
	}

	// Quality 4 must be exactly zero so a stream of 4s never drifts.
	assert.Equal(t, 0.0, easeDelta(domain.QualityCorrectHesitant))
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		reps     int
		ef       float64
		quality  domain.Quality
		expected int
	}{
		{
			name:     "failure resets interval",
			current:  25,
			reps:     4,
			ef:       2.5,
			quality:  domain.QualityIncorrectEasy,
			expected: 1,
		},
		{
			name:     "blackout on new card",
			current:  1,
			reps:     0,
			ef:       2.5,
			quality:  domain.QualityBlackout,
			expected: 1,
		},
		{
			name:     "first success",
			current:  1,
			reps:     0,
			ef:       2.5,
			quality:  domain.QualityCorrectDifficult,
			expected: 1,
		},
		{
			name:     "second success",
			current:  1,
			reps:     1,
			ef:       2.6,
			quality:  domain.QualityPerfect,
			expected: 6,
		},
		{
			name:     "later success multiplies by ease",
			current:  6,
			reps:     2,
			ef:       2.5,
			quality:  domain.QualityCorrectHesitant,
			expected: 15,
		},
		{
			name:     "rounds to nearest",
			current:  6,
			reps:     2,
			ef:       2.7,
			quality:  domain.QualityPerfect,
			expected: 16, // 16.2
		},
		{
			name:     "half rounds up",
			current:  5,
			reps:     3,
			ef:       1.5,
			quality:  domain.QualityPerfect,
			expected: 8, // 7.5
		},
		{
			name:     "minimum ease on one day interval",
			current:  1,
			reps:     5,
			ef:       1.3,
			quality:  domain.QualityCorrectDifficult,
			expected: 1,
		},
		{
			name:     "growth is capped",
			current:  30000,
			reps:     9,
			ef:       2.5,
			quality:  domain.QualityPerfect,
			expected: domain.MaxInterval,
		},
		{
			name:     "huge product does not overflow",
			current:  math.MaxInt32,
			reps:     20,
			ef:       4.1,
			quality:  domain.QualityPerfect,
			expected: domain.MaxInterval,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewInterval(tc.current, tc.reps, tc.ef, tc.quality, params)
			assert.Equal(t, tc.expected, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, params.MaxInterval)
		})
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  domain.Quality
		expected float64
	}{
		{"perfect increases", 2.5, domain.QualityPerfect, 2.6},
		{"hesitant unchanged", 2.5, domain.QualityCorrectHesitant, 2.5},
		{"difficult decreases", 2.5, domain.QualityCorrectDifficult, 2.36},
		{"failure decreases", 2.7, domain.QualityIncorrectEasy, 2.38},
		{"blackout decreases most", 2.5, domain.QualityBlackout, 1.7},
		{"floored at minimum", 1.4, domain.QualityBlackout, 1.3},
		{"minimum stays at minimum", 1.3, domain.QualityCorrectDifficult, 1.3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewEaseFactor(tc.current, tc.quality, params)
			assert.InDelta(t, tc.expected, got, 1e-9)
			assert.GreaterOrEqual(t, got, params.MinEaseFactor)
		})
	}
}

func TestCalculateNewEaseFactor_MonotonicInQuality(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for _, ef := range []float64{1.3, 1.5, 2.0, 2.5, 3.1} {
		prev := calculateNewEaseFactor(ef, domain.QualityBlackout, params)
		for q := domain.QualityIncorrectFamiliar; q <= domain.QualityPerfect; q++ {
			got := calculateNewEaseFactor(ef, q, params)
			assert.GreaterOrEqual(t, got, prev, "ef=%v q=%d", ef, q)
			prev = got
		}
	}
}

func TestCalculateNextReviewDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC), calculateNextReviewDate(1, now))
	assert.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), calculateNextReviewDate(6, now))
	assert.Equal(t, time.Date(2024, 4, 8, 14, 30, 0, 0, time.UTC), calculateNextReviewDate(30, now))
}

func TestCalculateNextProgress(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	progress, err := domain.NewProgress(uuid.New(), uuid.New(), domain.DirectionAToB, now)
	require.NoError(t, err)
	original := *progress

	updated := calculateNextProgress(progress, domain.QualityPerfect, now, params)

	require.NotNil(t, updated)
	assert.NotSame(t, progress, updated, "must return a new object")
	assert.Equal(t, original, *progress, "input must not be modified")

	assert.Equal(t, progress.UserID, updated.UserID)
	assert.Equal(t, progress.CardID, updated.CardID)
	assert.Equal(t, progress.Direction, updated.Direction)
	assert.Equal(t, 1, updated.Interval)
	assert.Equal(t, 1, updated.Repetitions)
	assert.InDelta(t, 2.6, updated.EaseFactor, 1e-9)
	assert.Equal(t, now.AddDate(0, 0, 1), updated.NextReview)
	assert.Equal(t, now, updated.UpdatedAt)
}

func TestCalculateNextProgress_UsesPriorEase(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	progress := &domain.Progress{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		Direction:   domain.DirectionBToA,
		EaseFactor:  2.5,
		Interval:    10,
		Repetitions: 3,
	}

	updated := calculateNextProgress(progress, domain.QualityPerfect, now, params)

	// 10 * 2.5, not 10 * 2.6
	assert.Equal(t, 25, updated.Interval)
	assert.InDelta(t, 2.6, updated.EaseFactor, 1e-9)
	assert.Equal(t, 4, updated.Repetitions)
}

func TestCalculateNextProgress_FailureResets(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	progress := &domain.Progress{
		UserID:      uuid.New(),
		CardID:      uuid.New(),
		Direction:   domain.DirectionAToB,
		EaseFactor:  2.2,
		Interval:    40,
		Repetitions: 6,
	}

	for q := domain.QualityBlackout; q < domain.PassingQuality; q++ {
		updated := calculateNextProgress(progress, q, now, params)
		assert.Equal(t, 0, updated.Repetitions, "quality %d", q)
		assert.Equal(t, 1, updated.Interval, "quality %d", q)
		assert.Less(t, updated.EaseFactor, progress.EaseFactor, "quality %d", q)
		assert.Equal(t, now.AddDate(0, 0, 1), updated.NextReview)
	}
}

func TestCalculateNewInterval_CustomCap(t *testing.T) {
	t.Parallel()
	params := NewParams(ParamsConfig{MaxInterval: 365})

	assert.Equal(t, 365, calculateNewInterval(300, 4, 2.5, domain.QualityPerfect, params))
	assert.Equal(t, 6, calculateNewInterval(1, 1, 2.5, domain.QualityPerfect, params))
}
