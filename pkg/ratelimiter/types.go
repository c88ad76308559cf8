package ratelimiter

import (
	"fmt"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Limit     int       // bucket capacity, i.e. the burst of attempts
	Remaining int       // tokens left; negative once the caller is over
	ResetAt   time.Time // when the next token is added
}

// Allowed reports whether the attempt fits in the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for an allowed attempt, otherwise the wait until ResetAt.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Config sizes a bucket. For code attempts, Capacity is how many guesses a
// user gets in a row and RefillRate/RefillInterval how fast they come back.
type Config struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	case c.RefillRate <= 0:
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	case c.RefillInterval <= 0:
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}
