package account

import (
	"errors"
	"log/slog"
	"time"

	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/ratelimiter"
	"github.com/boardly/boardly/pkg/secretbox"
	"github.com/boardly/boardly/pkg/session"
	"github.com/boardly/boardly/pkg/twofactor"
	"github.com/boardly/boardly/svc/auth"
	svctwofactor "github.com/boardly/boardly/svc/twofactor"
)

// DefaultPendingSecretTTL bounds the time between /setup and /enable.
const DefaultPendingSecretTTL = 10 * time.Minute

// Deps are the collaborators of the account routes. Nothing is looked up
// globally; the server builds one Deps and passes it to Router.
type Deps struct {
	Sessions  *session.Manager
	Claims    *twofactor.Manager
	Auth      *auth.Service
	TwoFactor *svctwofactor.Service

	// Providers maps the {provider} URL segment to its adapter. Unlisted
	// providers answer 404.
	Providers map[string]auth.ProviderAdapter

	// Codec seals the pending enrollment secret while it sits in the session.
	// Nil stores it as is.
	Codec secretbox.Codec

	// CodeLimiter throttles /security/2fa/verify and /recover per user and IP.
	// Nil disables the route-level limit.
	CodeLimiter ratelimiter.RateLimiter

	Metrics *Metrics
	Logger  *slog.Logger

	PendingSecretTTL time.Duration
	Now              func() time.Time
}

func (d *Deps) validate() error {
	switch {
	case d.Sessions == nil:
		return errors.New("account: session manager is required")
	case d.Claims == nil:
		return errors.New("account: two-factor claim manager is required")
	case d.Auth == nil:
		return errors.New("account: auth service is required")
	case d.TwoFactor == nil:
		return errors.New("account: two-factor service is required")
	}

	if d.Codec == nil {
		d.Codec = secretbox.NullCodec{}
	}
	if d.Metrics == nil {
		d.Metrics = NewMetrics(nil)
	}
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	if d.PendingSecretTTL <= 0 {
		d.PendingSecretTTL = DefaultPendingSecretTTL
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return nil
}
