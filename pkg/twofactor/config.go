package twofactor

import (
	"errors"
	"strings"
	"time"
)

const (
	DefaultCookieName = "2fa_verified"
	DefaultTTL        = 7 * 24 * time.Hour
)

// Config is read from the environment. TWO_FACTOR_SECRET is required: without it
// the process must not start, since the alternative is an unprotected gate.
type Config struct {
	// Secrets is a comma-separated list. The first signs new claims; all of them
	// are accepted when verifying, which allows rotation.
	Secrets    string `env:"TWO_FACTOR_SECRET,required"`
	CookieName string `env:"TWO_FACTOR_COOKIE_NAME" envDefault:"2fa_verified"`
	// TTL is how long a verification claim stays valid. The policy is a fixed
	// 7 days and the default matches it; any other value loosens or tightens
	// that policy for the whole deployment, so leave it unset unless that is
	// the intent. Zero means the default.
	TTL time.Duration `env:"TWO_FACTOR_TTL" envDefault:"168h"`
	// Secure forces the Secure cookie attribute. It is also switched on for
	// production-like environments and when COOKIE_SECURE is set.
	Secure bool `env:"TWO_FACTOR_COOKIE_SECURE" envDefault:"false"`
	// ClockSkew extends expiry checks to absorb clock drift between replicas.
	ClockSkew time.Duration `env:"TWO_FACTOR_CLOCK_SKEW" envDefault:"0s"`
}

// DefaultConfig returns the defaults with no secret set.
func DefaultConfig() Config {
	return Config{
		CookieName: DefaultCookieName,
		TTL:        DefaultTTL,
	}
}

// Validate is called by config.Load.
func (c Config) Validate() error {
	if len(c.secrets()) == 0 {
		return errors.Join(ErrConfiguration, ErrMissingSecret)
	}
	if c.TTL < 0 || c.ClockSkew < 0 {
		return errors.Join(ErrConfiguration, errors.New("durations must not be negative"))
	}
	return nil
}

func (c Config) secrets() []string {
	var out []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
