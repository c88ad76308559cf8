package ratelimiter

import (
	"context"
	"fmt"
)

// RateLimiter is what the code-submission routes and the two-factor service
// depend on. Keys are chosen by the caller: the service uses "2fa:<user id>"
// so attempts are counted per account wherever they come from, while the HTTP
// middleware keys by "2fa-code:<user id>" plus client IP.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	AllowN(ctx context.Context, key string, n int) (*Result, error)
	// Reset forgets a key's spent attempts once the user has proven the factor.
	Reset(ctx context.Context, key string) error
}

// Bucket is a token bucket over a Store.
type Bucket struct {
	store  Store
	config Config
}

// NewBucket returns ErrInvalidConfig unless every Config field is positive.
func NewBucket(store Store, config Config) (*Bucket, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, config: config}, nil
}

// Allow takes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN takes n tokens for key. A denied call still counts against the bucket.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	return b.consume(ctx, key, n)
}

// Status reports the bucket without spending from it.
func (b *Bucket) Status(ctx context.Context, key string) (*Result, error) {
	return b.consume(ctx, key, 0)
}

// Reset clears key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

func (b *Bucket) consume(ctx context.Context, key string, n int) (*Result, error) {
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

var _ RateLimiter = (*Bucket)(nil)
