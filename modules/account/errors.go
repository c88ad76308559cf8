package account

import (
	"errors"
	"net/http"

	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/session"
	"github.com/boardly/boardly/pkg/twofactor"
	"github.com/boardly/boardly/svc/auth"
	svctwofactor "github.com/boardly/boardly/svc/twofactor"
)

type errorMapping struct {
	err    error
	status int
	msg    string
}

// Clients only ever see msg; the log line carries the error itself.
var errorMappings = []errorMapping{
	{errBadRequest, http.StatusBadRequest, "Malformed request"},
	{twofactor.ErrVerificationRequired, http.StatusForbidden, twofactor.Message},
	{twofactor.ErrSessionBinding, http.StatusUnauthorized, "Authentication required"},
	{session.ErrSessionNotFound, http.StatusUnauthorized, "Authentication required"},
	{session.ErrSessionExpired, http.StatusUnauthorized, "Authentication required"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{auth.ErrInvalidEmail, http.StatusBadRequest, "Invalid email"},
	{auth.ErrWeakPassword, http.StatusBadRequest, "Password must be 8 to 72 characters"},
	{auth.ErrEmailAlreadyExists, http.StatusConflict, "Email already registered"},
	{auth.ErrInvalidState, http.StatusBadRequest, "Sign-in could not be completed"},
	{auth.ErrInvalidCode, http.StatusBadRequest, "Sign-in could not be completed"},
	{auth.ErrUnverifiedEmail, http.StatusBadRequest, "Provider email is not verified"},
	{auth.ErrNoPrimaryEmail, http.StatusBadRequest, "Provider returned no email"},
	{svctwofactor.ErrInvalidCode, http.StatusUnauthorized, "Invalid verification code"},
	{svctwofactor.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many attempts"},
	{svctwofactor.ErrNotEnabled, http.StatusBadRequest, "Two-factor authentication is not enabled"},
	{svctwofactor.ErrAlreadyEnabled, http.StatusConflict, "Two-factor authentication is already enabled"},
	{svctwofactor.ErrSetupExpired, http.StatusBadRequest, "Two-factor setup expired, start again"},
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			h.Logger.DebugContext(r.Context(), "request rejected", logger.Error(err))
			writeJSON(w, m.status, errorBody{Error: m.msg})
			return
		}
	}
	h.Logger.ErrorContext(r.Context(), "request failed", logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}
