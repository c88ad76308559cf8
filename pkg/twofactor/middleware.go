package twofactor

import (
	"encoding/json"
	"net/http"
)

// SubjectFunc resolves the signed-in user of a request. An error means the
// request is not authenticated at all.
type SubjectFunc func(r *http.Request) (Subject, error)

// RequireUnlocked guards privileged routes. Unauthenticated requests get 401;
// requests that need a claim and lack a valid one get 403 with Message.
func (m *Manager) RequireUnlocked(resolve SubjectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := resolve(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if err := m.EnsureUnlocked(r, subject); err != nil {
				writeError(w, http.StatusForbidden, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
