package ratelimiter

import "errors"

var (
	// ErrInvalidConfig is returned by NewBucket for a zero or negative field.
	ErrInvalidConfig = errors.New("ratelimiter.invalid_config")

	// ErrInvalidTokenCount rejects AllowN with n <= 0.
	ErrInvalidTokenCount = errors.New("ratelimiter.invalid_token_count")

	// ErrContextCancelled wraps ctx.Err() when a store gives up before touching the bucket.
	ErrContextCancelled = errors.New("ratelimiter.context_cancelled")

	// ErrStoreUnavailable wraps Redis failures. Callers guarding code
	// submissions should treat it as a denial, not as a free attempt.
	ErrStoreUnavailable = errors.New("ratelimiter.store_unavailable")
)
