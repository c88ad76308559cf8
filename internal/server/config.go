package server

import (
	"errors"
	"strings"
	"time"

	"github.com/boardly/boardly/pkg/clientip"
	"github.com/boardly/boardly/pkg/cookie"
	"github.com/boardly/boardly/pkg/httpserver"
	"github.com/boardly/boardly/pkg/pg"
	"github.com/boardly/boardly/pkg/redis"
	"github.com/boardly/boardly/pkg/secretbox"
	"github.com/boardly/boardly/pkg/session"
	"github.com/boardly/boardly/pkg/twofactor"
	"github.com/boardly/boardly/svc/auth"
)

// Config is the whole process configuration, parsed by config.Load. Nested
// structs keep the variable names of the packages that own them.
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"boardly"`
	LogFormat   string `env:"LOG_FORMAT"`

	// TOTPIssuer is the account label shown by authenticator apps.
	TOTPIssuer string `env:"TOTP_ISSUER" envDefault:"Boardly"`
	// BoltPath is used for users and TOTP secrets when DATABASE_URL is empty.
	// An empty path keeps them in memory.
	BoltPath     string        `env:"BOLT_PATH" envDefault:"boardly.db"`
	CORSOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	ReadyTimeout time.Duration `env:"READY_TIMEOUT" envDefault:"2s"`
	CodeLimit    CodeLimitConfig

	HTTP      httpserver.Config
	Cookie    cookie.Config
	Session   session.Config
	TwoFactor twofactor.Config
	Secretbox secretbox.Config
	Redis     redis.Config
	Postgres  pg.Config
	ClientIP  clientip.Config
	Google    auth.GoogleOAuthConfig
	GitHub    auth.GitHubOAuthConfig
}

// CodeLimitConfig throttles TOTP and recovery code submissions: Burst attempts,
// then one more per Interval.
type CodeLimitConfig struct {
	Burst    int           `env:"TWO_FACTOR_CODE_BURST" envDefault:"5"`
	Interval time.Duration `env:"TWO_FACTOR_CODE_INTERVAL" envDefault:"1m"`
}

// Validate is called by config.Load, so a missing signing or cookie secret
// stops the process before it listens.
func (c Config) Validate() error {
	errs := []error{c.TwoFactor.Validate(), c.Cookie.Validate()}
	if c.CodeLimit.Burst <= 0 || c.CodeLimit.Interval <= 0 {
		errs = append(errs, errors.New("TWO_FACTOR_CODE_BURST and TWO_FACTOR_CODE_INTERVAL must be positive"))
	}
	if strings.TrimSpace(c.Secretbox.EncryptionKey) != "" {
		raw, err := secretbox.ParseKey(c.Secretbox.EncryptionKey)
		if err != nil {
			errs = append(errs, err)
		}
		clear(raw)
	}
	return errors.Join(errs...)
}
