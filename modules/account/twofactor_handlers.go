package account

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/twofactor"
)

// Session keys for the enrollment in progress.
const (
	pendingSecretKey  = "2fa_pending_secret"
	pendingExpiresKey = "2fa_pending_expires"
)

type statusResponse struct {
	Enabled                bool   `json:"enabled"`
	Required               bool   `json:"required"`
	Verified               bool   `json:"verified"`
	State                  string `json:"state"`
	RecoveryCodesRemaining *int   `json:"recoveryCodesRemaining,omitempty"`
}

func (h *handlers) twoFactorStatus(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subject(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	verified := h.Claims.IsVerified(r, subject.UserID)
	resp := statusResponse{
		Enabled:  subject.TwoFactorEnabled,
		Required: twofactor.IsRequired(subject),
		Verified: verified,
		State:    twofactor.StateOf(subject, verified).String(),
	}
	if subject.TwoFactorEnabled {
		_, userID, _ := currentSession(r)
		remaining, err := h.TwoFactor.RemainingRecoveryCodes(r.Context(), userID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp.RecoveryCodesRemaining = &remaining
	}
	writeJSON(w, http.StatusOK, resp)
}

type setupResponse struct {
	Secret    string    `json:"secret"`
	URI       string    `json:"uri"`
	QRCode    string    `json:"qrCode"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// twoFactorSetup starts enrollment. The secret waits in the session, sealed
// with the codec, until /enable confirms it or it expires.
func (h *handlers) twoFactorSetup(w http.ResponseWriter, r *http.Request) {
	sess, userID, err := currentSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx := r.Context()

	user, err := h.Auth.User(ctx, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	enr, err := h.TwoFactor.Setup(ctx, userID, user.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sealed, err := h.Codec.MaybeEncrypt(enr.Secret)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	expiresAt := h.Now().Add(h.PendingSecretTTL)
	sess.Set(pendingSecretKey, sealed)
	sess.Set(pendingExpiresKey, strconv.FormatInt(expiresAt.UnixMilli(), 10))
	if err := h.Sessions.Save(ctx, sess); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, setupResponse{
		Secret:    enr.Secret,
		URI:       enr.URI,
		QRCode:    enr.QRCode,
		ExpiresAt: expiresAt.UTC(),
	})
}

type codeRequest struct {
	Code string `json:"code"`
}

type enableResponse struct {
	RecoveryCodes []string `json:"recoveryCodes"`
}

// twoFactorEnable confirms the pending secret. The session that just proved
// possession of the authenticator is marked verified right away.
func (h *handlers) twoFactorEnable(w http.ResponseWriter, r *http.Request) {
	sess, userID, err := currentSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req codeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx := r.Context()

	pending, err := h.pendingSecret(sess.Data)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	codes, err := h.TwoFactor.Activate(ctx, userID, pending, req.Code)
	h.Metrics.verification("enable", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sess.Delete(pendingSecretKey)
	sess.Delete(pendingExpiresKey)
	if err := h.Sessions.Save(ctx, sess); err != nil {
		h.Logger.WarnContext(ctx, "failed to drop pending secret", logger.Error(err))
	}
	if err := h.Claims.SetVerified(w, r, userID.String()); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, enableResponse{RecoveryCodes: codes})
}

// pendingSecret returns "" (and so ErrSetupExpired from Activate) once the
// enrollment window has passed.
func (h *handlers) pendingSecret(data map[string]string) (string, error) {
	sealed, expires := data[pendingSecretKey], data[pendingExpiresKey]
	if sealed == "" || expires == "" {
		return "", nil
	}
	ms, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || h.Now().After(time.UnixMilli(ms)) {
		return "", nil
	}
	return h.Codec.MaybeDecrypt(sealed)
}

type verifyResponse struct {
	State string `json:"state"`
}

// twoFactorVerify upgrades a federated session after a TOTP check.
func (h *handlers) twoFactorVerify(w http.ResponseWriter, r *http.Request) {
	h.verifyWith(w, r, "totp", h.TwoFactor.Verify)
}

// twoFactorRecover is twoFactorVerify with a single-use recovery code.
func (h *handlers) twoFactorRecover(w http.ResponseWriter, r *http.Request) {
	h.verifyWith(w, r, "recovery", h.TwoFactor.VerifyRecoveryCode)
}

func (h *handlers) verifyWith(w http.ResponseWriter, r *http.Request, method string, check func(context.Context, uuid.UUID, string) error) {
	_, userID, err := currentSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req codeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx := r.Context()

	err = check(ctx, userID, req.Code)
	h.Metrics.verification(method, err)
	if err != nil {
		h.Logger.InfoContext(ctx, "two-factor verification failed",
			logger.UserID(userID),
			logger.Reason(method),
			logger.Error(err),
		)
		h.fail(w, r, err)
		return
	}

	if err := h.Claims.SetVerified(w, r, userID.String()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Logger.InfoContext(ctx, "two-factor verified", logger.UserID(userID), logger.Reason(method))
	writeJSON(w, http.StatusOK, verifyResponse{State: twofactor.RequiredVerified.String()})
}

// twoFactorDisable sits behind RequireUnlocked and still asks for a current code.
func (h *handlers) twoFactorDisable(w http.ResponseWriter, r *http.Request) {
	_, userID, err := currentSession(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req codeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	err = h.TwoFactor.Deactivate(r.Context(), userID, req.Code)
	h.Metrics.verification("disable", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Claims.ClearVerified(w)
	w.WriteHeader(http.StatusNoContent)
}
