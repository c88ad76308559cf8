package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/ratelimiter"
)

type handlers struct {
	Deps
}

// Router mounts the authentication, two-factor and example API routes.
//
//	r := chi.NewRouter()
//	api, err := account.Router(deps)
//	r.Mount("/", api)
func Router(deps Deps) (chi.Router, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	deps.Logger = deps.Logger.With(logger.Component("account"))
	h := &handlers{Deps: deps}

	r := chi.NewRouter()
	r.Use(h.Metrics.Instrument)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/oauth/{provider}", h.oauthStart)
		r.Get("/oauth/{provider}/callback", h.oauthCallback)
	})

	r.Route("/security/2fa", func(r chi.Router) {
		r.Use(h.Sessions.RequireAuth(unauthorized))
		r.Get("/", h.twoFactorStatus)
		r.Post("/setup", h.twoFactorSetup)
		r.Post("/enable", h.twoFactorEnable)

		r.Group(func(r chi.Router) {
			if h.CodeLimiter != nil {
				r.Use(ratelimiter.Middleware(h.CodeLimiter,
					ratelimiter.Composite(ratelimiter.Prefixed("2fa-code", sessionUserKey), ratelimiter.ByIP),
					ratelimiter.WithOnLimit(h.onCodeLimit),
					ratelimiter.WithErrorResponder(func(w http.ResponseWriter, _ *http.Request, status int) {
						writeJSON(w, status, errorBody{Error: "Too many attempts"})
					}),
				))
			}
			r.Post("/verify", h.twoFactorVerify)
			r.Post("/recover", h.twoFactorRecover)
		})

		r.With(h.Claims.RequireUnlocked(h.subject)).Post("/disable", h.twoFactorDisable)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(h.Sessions.RequireAuth(unauthorized))
		r.Use(h.Claims.RequireUnlocked(h.subject))
		r.Get("/me", h.me)
	})

	return r, nil
}

func (h *handlers) onCodeLimit(r *http.Request, key string) {
	h.Metrics.codeThrottled.Inc()
	h.Logger.WarnContext(r.Context(), "two-factor code submissions throttled", logger.Reason(key))
}
