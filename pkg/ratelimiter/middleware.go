package ratelimiter

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/boardly/boardly/pkg/clientip"
)

// maxKeyLength is the maximum allowed length for a rate limit key
// to prevent excessively long storage keys.
const maxKeyLength = 64

// KeyFunc extracts a rate limit key from the request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByIP keys requests by the client address, honouring proxy headers.
func ByIP(r *http.Request) string {
	if ip := clientip.GetIP(r); ip != "" {
		return "ip:" + ip
	}
	return ""
}

// Prefixed namespaces keys so separate limiters can share one store.
func Prefixed(prefix string, fn KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		if key := fn(r); key != "" {
			return prefix + ":" + key
		}
		return ""
	}
}

// Composite combines multiple key functions into one.
// Long keys (>64 chars) are hashed using FNV-1a for storage efficiency.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}

		if len(parts) == 0 {
			return ""
		}
		if len(parts) == 1 && len(parts[0]) <= maxKeyLength {
			return parts[0]
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			h.Write([]byte(combined))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return combined
	}
}

// ErrorResponder writes the response for a rejected or failed request.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, status int)

type middlewareOptions struct {
	respond ErrorResponder
	onLimit func(r *http.Request, key string)
}

type MiddlewareOption func(*middlewareOptions)

// WithErrorResponder replaces the default JSON error body.
func WithErrorResponder(fn ErrorResponder) MiddlewareOption {
	return func(o *middlewareOptions) {
		if fn != nil {
			o.respond = fn
		}
	}
}

// WithOnLimit registers a callback for rejected requests, e.g. a metrics counter.
func WithOnLimit(fn func(r *http.Request, key string)) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.onLimit = fn
	}
}

// Middleware rejects requests over the limit with 429 and sets the
// X-RateLimit-* headers on every limited response.
func Middleware(limiter RateLimiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := middlewareOptions{respond: jsonError}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				o.respond(w, r, http.StatusInternalServerError)
				return
			}

			SetHeaders(w, result)

			if !result.Allowed() {
				if o.onLimit != nil {
					o.onLimit(r, key)
				}
				o.respond(w, r, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetHeaders writes the standard rate limit headers for result. Handlers that
// call a limiter directly use it to report the same headers as Middleware.
func SetHeaders(w http.ResponseWriter, result *Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if !result.Allowed() {
		if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		}
	}
}

func jsonError(w http.ResponseWriter, _ *http.Request, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)})
}
