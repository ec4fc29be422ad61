package common

import (
	"context"
	"time"
)

// RetryConfig parameterizes WithRetry. Classify decides whether an error
// is worth retrying; a nil Classify retries everything.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
	Backoff  float64
	Classify func(error) bool
}

// DefaultRetry covers persistence and provider calls: three attempts,
// doubling delay.
var DefaultRetry = RetryConfig{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	Backoff:  2.0,
}

// WithRetry runs fn until it succeeds, attempts are exhausted, the error
// is classified permanent, or the context is cancelled. Returns the last
// error observed.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}

	delay := cfg.Delay
	var err error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if cfg.Classify != nil && !cfg.Classify(err) {
			return err
		}
		if attempt == cfg.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if cfg.Backoff > 1 {
			delay = time.Duration(float64(delay) * cfg.Backoff)
		}
	}

	return err
}
