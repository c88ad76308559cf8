package twofactor

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/boardly/boardly/pkg/cookie"
	"github.com/boardly/boardly/pkg/logger"
	"github.com/boardly/boardly/pkg/token"
)

// SessionSource yields the opaque token of the login session presented with a
// request. The claim is bound to a digest of that token.
type SessionSource interface {
	Token(r *http.Request) (string, error)
}

// Manager mints, checks and revokes the verification claim. It holds no
// per-request state and is safe for concurrent use.
type Manager struct {
	sessions SessionSource
	cookies  *cookie.Manager
	secrets  []string
	name     string
	ttl      time.Duration
	skew     time.Duration
	secure   bool
	now      func() time.Time
	logger   *slog.Logger
}

// New validates cfg and builds a Manager. A missing signing secret is an
// ErrConfiguration; there is no fallback key.
func New(cfg Config, sessions SessionSource, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sessions == nil {
		return nil, errors.Join(ErrConfiguration, errors.New("session source is required"))
	}

	m := &Manager{
		sessions: sessions,
		secrets:  cfg.secrets(),
		name:     cfg.CookieName,
		ttl:      cfg.TTL,
		skew:     cfg.ClockSkew,
		secure:   cfg.Secure,
		now:      time.Now,
		logger:   logger.Discard(),
	}
	if m.name == "" {
		m.name = DefaultCookieName
	}
	if m.ttl == 0 {
		m.ttl = DefaultTTL
	}

	for _, opt := range opts {
		opt(m)
	}

	// The cookie manager enforces the minimum secret length for the signing secrets too.
	cookies, err := cookie.New(m.secrets,
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithSecure(m.secure),
		cookie.WithMaxAge(int(m.ttl/time.Second)),
	)
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	m.cookies = cookies
	m.logger = m.logger.With(logger.Component("twofactor"))

	return m, nil
}

// CookieName returns the name of the claim cookie.
func (m *Manager) CookieName() string {
	return m.name
}

// IsVerified reports whether r carries a claim for userID that is well signed,
// unexpired and bound to the session presented with r. Any failure is false;
// the cause is only logged.
func (m *Manager) IsVerified(r *http.Request, userID string) bool {
	reason := m.check(r, userID)
	if reason != "" {
		m.logger.DebugContext(r.Context(), "two-factor claim rejected",
			logger.UserID(userID),
			logger.Reason(reason),
		)
		return false
	}
	return true
}

func (m *Manager) check(r *http.Request, userID string) string {
	if userID == "" {
		return "no_user"
	}

	raw, err := m.cookies.Get(r, m.name)
	if err != nil || raw == "" {
		return "no_claim"
	}

	claim, err := token.Verify[Claim](raw, m.secrets...)
	switch {
	case errors.Is(err, token.ErrSignatureInvalid):
		return "bad_signature"
	case err != nil:
		return "malformed"
	}

	if subtle.ConstantTimeCompare([]byte(claim.UserID), []byte(userID)) != 1 {
		return "user_mismatch"
	}
	if claim.expired(m.now(), m.skew) {
		return "expired"
	}

	sessionToken, err := m.sessions.Token(r)
	if err != nil || sessionToken == "" {
		return "no_session"
	}
	if subtle.ConstantTimeCompare([]byte(Fingerprint(sessionToken)), []byte(claim.SessionFingerprint)) != 1 {
		return "session_mismatch"
	}

	return ""
}

// State reports the two-factor state of the session presented with r.
func (m *Manager) State(r *http.Request, s Subject) State {
	if !IsRequired(s) {
		return NotRequired
	}
	return StateOf(s, m.IsVerified(r, s.UserID))
}

// EnsureUnlocked is the gate for privileged actions. It returns nil when the
// subject does not need a claim or holds a valid one, and
// ErrVerificationRequired otherwise, whatever the underlying cause.
func (m *Manager) EnsureUnlocked(r *http.Request, s Subject) error {
	if m.State(r, s).Unlocked() {
		return nil
	}
	return ErrVerificationRequired
}

// SetVerified mints a claim for userID bound to the session presented with r.
// Call it only after the TOTP code (or a recovery code) has been checked.
func (m *Manager) SetVerified(w http.ResponseWriter, r *http.Request, userID string) error {
	sessionToken, err := m.sessions.Token(r)
	if err != nil {
		return errors.Join(ErrSessionBinding, err)
	}
	return m.SetVerifiedForSession(w, sessionToken, userID)
}

// SetVerifiedForSession mints a claim bound to sessionToken. Login handlers use
// it because the freshly rotated session token is only in the response.
func (m *Manager) SetVerifiedForSession(w http.ResponseWriter, sessionToken, userID string) error {
	if sessionToken == "" {
		return ErrSessionBinding
	}
	if userID == "" {
		return errors.Join(ErrSessionBinding, errors.New("user id is empty"))
	}

	signed, err := token.Sign(newClaim(userID, sessionToken, m.now(), m.ttl), m.secrets[0])
	if err != nil {
		return errors.Join(ErrConfiguration, err)
	}

	m.cookies.Set(w, m.name, signed)
	return nil
}

// ClearVerified expires the claim cookie. It is safe to call when none is set.
func (m *Manager) ClearVerified(w http.ResponseWriter) {
	m.cookies.Delete(w, m.name)
}
