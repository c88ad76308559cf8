// Package ratelimiter provides token bucket rate limiting with in-memory and
// Redis storage and an HTTP middleware.
//
// boardly uses it to throttle second-factor attempts: every TOTP or recovery
// code submission consumes a token keyed by user, so guessing the 10^6 code
// space is not practical within a code's validity window.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//
//	res, err := limiter.Allow(ctx, "2fa:"+userID)
//	if !res.Allowed() {
//		// wait res.RetryAfter()
//	}
//
// # Stores
//
// MemoryStore keeps buckets per process and drops idle ones periodically.
// RedisStore runs the same algorithm in a Lua script so replicas share state.
//
// # Middleware
//
// Middleware limits by a KeyFunc (ByIP, Prefixed, Composite) and sets
// X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset and, when
// rejecting, Retry-After. An empty key bypasses the limiter.
package ratelimiter
