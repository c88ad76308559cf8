package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/twofactor"
	"github.com/boardly/boardly/svc/auth"
)

const oauthStateKey = "oauth_state"

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func newUserResponse(u *auth.User) userResponse {
	return userResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

type loginResponse struct {
	User userResponse `json:"user"`
	// TwoFactor is the state of the new session, see twofactor.State.
	TwoFactor string `json:"twoFactor"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

// login is the credentials path. Users with 2FA enabled must send the TOTP
// code with the password, so these sessions never need a claim.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx := r.Context()

	user, err := h.Auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.Metrics.login(auth.ProviderCredentials, "invalid")
		h.fail(w, r, err)
		return
	}

	enabled, err := h.TwoFactor.Enabled(ctx, user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if enabled {
		if req.Code == "" {
			h.Metrics.login(auth.ProviderCredentials, "code_required")
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Verification code required", TwoFactorRequired: true})
			return
		}
		if err := h.TwoFactor.Verify(ctx, user.ID, req.Code); err != nil {
			h.Metrics.verification("login", err)
			h.Metrics.login(auth.ProviderCredentials, "invalid_code")
			h.fail(w, r, err)
			return
		}
		h.Metrics.verification("login", nil)
	}

	if _, err := h.Sessions.Authenticate(ctx, w, r, user.ID, auth.ProviderCredentials); err != nil {
		h.fail(w, r, err)
		return
	}
	// A claim from an earlier login belongs to a token that no longer exists.
	h.Claims.ClearVerified(w)

	h.Metrics.login(auth.ProviderCredentials, "success")
	h.Logger.InfoContext(ctx, "signed in", logger.UserID(user.ID), logger.Provider(auth.ProviderCredentials))
	writeJSON(w, http.StatusOK, loginResponse{User: newUserResponse(user), TwoFactor: twofactor.NotRequired.String()})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(r.Context(), w, r); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Claims.ClearVerified(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) provider(r *http.Request) (auth.ProviderAdapter, bool) {
	adapter, ok := h.Providers[chi.URLParam(r, "provider")]
	return adapter, ok
}

// oauthStart stores a fresh state in the (possibly anonymous) session and
// redirects to the provider.
func (h *handlers) oauthStart(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.provider(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Unknown provider"})
		return
	}
	ctx := r.Context()

	sess, err := h.Sessions.Ensure(ctx, w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	state, err := auth.NewState()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sess.Set(oauthStateKey, state)
	if err := h.Sessions.Save(ctx, sess); err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, adapter.AuthURL(state), http.StatusFound)
}

// oauthCallback completes a federated login. The session records the
// provider id, which puts users with 2FA enabled into RequiredUnverified.
func (h *handlers) oauthCallback(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.provider(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Unknown provider"})
		return
	}
	ctx := r.Context()
	providerID := adapter.ProviderID()

	sess, err := h.Sessions.Get(ctx, r)
	if err != nil {
		h.fail(w, r, auth.ErrInvalidState)
		return
	}
	expected, _ := sess.Get(oauthStateKey)
	if err := auth.CheckState(expected, r.URL.Query().Get("state")); err != nil {
		h.Metrics.login(providerID, "invalid_state")
		h.fail(w, r, err)
		return
	}
	sess.Delete(oauthStateKey)
	if err := h.Sessions.Save(ctx, sess); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.Auth.SignIn(ctx, adapter, r.URL.Query().Get("code"))
	if err != nil {
		h.Metrics.login(providerID, "invalid")
		h.fail(w, r, err)
		return
	}

	if _, err := h.Sessions.Authenticate(ctx, w, r, user.ID, providerID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Claims.ClearVerified(w)

	enabled, err := h.TwoFactor.Enabled(ctx, user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	state := twofactor.StateOf(twofactor.Subject{
		UserID:           user.ID.String(),
		TwoFactorEnabled: enabled,
		AuthProvider:     providerID,
	}, false).String()
	h.Metrics.login(providerID, "success")
	h.Logger.InfoContext(ctx, "signed in",
		logger.UserID(user.ID),
		logger.Provider(providerID),
		logger.State(state),
	)
	writeJSON(w, http.StatusOK, loginResponse{User: newUserResponse(user), TwoFactor: state})
}
