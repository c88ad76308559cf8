package account

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/boardly/boardly/pkg/session"
	"github.com/boardly/boardly/pkg/twofactor"
)

var errNoSession = errors.New("account: no authenticated session")

// currentSession returns the session loaded by RequireAuth.
func currentSession(r *http.Request) (*session.Session, uuid.UUID, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.IsAuthenticated() {
		return nil, uuid.Nil, errNoSession
	}
	return sess, *sess.UserID, nil
}

// subject builds the policy input from the session and the stored 2FA record.
func (h *handlers) subject(r *http.Request) (twofactor.Subject, error) {
	sess, err := h.Sessions.Get(r.Context(), r)
	if err != nil || !sess.IsAuthenticated() {
		return twofactor.Subject{}, errNoSession
	}
	enabled, err := h.TwoFactor.Enabled(r.Context(), *sess.UserID)
	if err != nil {
		return twofactor.Subject{}, err
	}
	return twofactor.Subject{
		UserID:           sess.UserID.String(),
		TwoFactorEnabled: enabled,
		AuthProvider:     sess.AuthProvider,
	}, nil
}

// sessionUserKey keys rate limits by the signed-in user.
func sessionUserKey(r *http.Request) string {
	_, userID, err := currentSession(r)
	if err != nil {
		return ""
	}
	return userID.String()
}
