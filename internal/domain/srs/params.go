package srs

import "github.com/phrazzld/tandem-api/internal/domain"

// Params defines the tunable constants of the SM-2 scheduler.
type Params struct {
	// MinEaseFactor is the floor applied after every ease adjustment.
	MinEaseFactor float64

	// PassingQuality is the lowest quality treated as a successful recall.
	PassingQuality domain.Quality

	// FirstInterval and SecondInterval are the intervals, in days, used for the
	// first and second consecutive successful reviews. Later intervals grow by
	// the ease factor.
	FirstInterval  int
	SecondInterval int

	// FailureInterval is the interval, in days, after a failed recall.
	FailureInterval int

	// MaxInterval is the largest interval, in days, ever scheduled.
	MaxInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	MinEaseFactor   float64
	PassingQuality  domain.Quality
	FirstInterval   int
	SecondInterval  int
	FailureInterval int
	MaxInterval     int
}

// NewDefaultParams returns the canonical SM-2 constants.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:   domain.MinEaseFactor,
		PassingQuality:  domain.PassingQuality,
		FirstInterval:   1,
		SecondInterval:  6,
		FailureInterval: 1,
		MaxInterval:     domain.MaxInterval,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassingQuality > 0 && config.PassingQuality.IsValid() {
		params.PassingQuality = config.PassingQuality
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FailureInterval > 0 {
		params.FailureInterval = config.FailureInterval
	}
	// The cap can only be lowered; progress past domain.MaxInterval fails validation.
	if config.MaxInterval > 0 && config.MaxInterval < domain.MaxInterval {
		params.MaxInterval = config.MaxInterval
	}

	return params
}
