package server

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// corsHandler allows credentialed requests from the listed origins only. The
// session and claim cookies must never be sent from other sites.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:       allowed,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:       []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:       []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials:     true,
		MaxAge:               24 * 3600,
		OptionsSuccessStatus: http.StatusNoContent,
	}).Handler
}
