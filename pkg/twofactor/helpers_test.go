package twofactor_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/twofactor"
)

const (
	signingSecret = "two-factor-signing-secret-at-least-32-chars"
	otherSecret   = "another-two-factor-signing-secret-32-chars!"
	userID        = "7d8e3a52-4b1c-4c1e-9a57-0c3f4d2b9e10"
	sessionCookie = "sid"
)

// headerSessions reads the session token straight from a plain cookie.
type headerSessions struct{}

func (headerSessions) Token(r *http.Request) (string, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", errors.New("no session")
	}
	return c.Value, nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newManager(t *testing.T, opts ...twofactor.Option) *twofactor.Manager {
	t.Helper()
	cfg := twofactor.DefaultConfig()
	cfg.Secrets = signingSecret
	m, err := twofactor.New(cfg, headerSessions{}, opts...)
	require.NoError(t, err)
	return m
}

// request builds a request presenting the given session token and the cookies
// written to rec, if any.
func request(sessionToken string, rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/settings/email", nil)
	if sessionToken != "" {
		r.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionToken})
	}
	if rec != nil {
		for _, c := range rec.Result().Cookies() {
			r.AddCookie(c)
		}
	}
	return r
}

// claimCookie returns the raw value of the claim cookie written to rec.
func claimCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == twofactor.DefaultCookieName {
			return c.Value
		}
	}
	t.Fatal("claim cookie not set")
	return ""
}

// withClaim builds a request carrying a hand-crafted claim cookie value.
func withClaim(sessionToken, value string) *http.Request {
	r := request(sessionToken, nil)
	r.AddCookie(&http.Cookie{Name: twofactor.DefaultCookieName, Value: value})
	return r
}

func flipSignatureByte(value string) string {
	payload, sig, _ := strings.Cut(value, ".")
	b := []byte(sig)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	return payload + "." + string(b)
}
