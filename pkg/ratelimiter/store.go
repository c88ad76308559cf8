package ratelimiter

import (
	"context"
	"time"
)

// Store keeps one token bucket per key. MemoryStore serves a single process;
// RedisStore shares attempt counts across replicas so a user cannot spread
// code guesses over instances.
type Store interface {
	// ConsumeTokens refills the bucket for the time elapsed, then takes tokens
	// from it. A negative remaining means the caller is over the limit; resetAt
	// is when the next token arrives. Passing zero tokens only reads the state.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset drops the bucket, e.g. after a successful verification.
	Reset(ctx context.Context, key string) error
}
