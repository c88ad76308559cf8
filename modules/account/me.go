package account

import "net/http"

type meResponse struct {
	userResponse
	Provider string `json:"provider"`
}

// me is the example privileged endpoint. It only runs once RequireUnlocked has
// let the request through.
func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	sess, userID, err := currentSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.Auth.User(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{userResponse: newUserResponse(user), Provider: sess.AuthProvider})
}
