package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/boardly/boardly/modules/account"
	"github.com/boardly/boardly/pkg/cookie"
	"github.com/boardly/boardly/pkg/secretbox"
	"github.com/boardly/boardly/pkg/session"
	"github.com/boardly/boardly/pkg/totp"
	"github.com/boardly/boardly/pkg/twofactor"
	"github.com/boardly/boardly/svc/auth"
	svctwofactor "github.com/boardly/boardly/svc/twofactor"
)

const (
	cookieSecret  = "cookie-secret-for-account-tests-0123456789"
	signingSecret = "two-factor-signing-secret-for-account-tests"
	encryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	password      = "correct horse battery"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeAdapter stands in for an identity provider. The code "good" succeeds.
type fakeAdapter struct {
	id      string
	profile auth.ProviderProfile
}

func (a fakeAdapter) ProviderID() string { return a.id }

func (a fakeAdapter) AuthURL(state string) string {
	return "https://idp.test/authorize?state=" + url.QueryEscape(state)
}

func (a fakeAdapter) ResolveProfile(_ context.Context, code string) (auth.ProviderProfile, error) {
	if code != "good" {
		return auth.ProviderProfile{}, auth.ErrInvalidCode
	}
	return a.profile, nil
}

type testEnv struct {
	server *httptest.Server
	clock  *clock
	deps   account.Deps
}

type envOption func(*account.Deps)

func newEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	clk := &clock{now: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)}

	cookies, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)
	sessions := session.New(session.WithCookieManager(cookies))
	t.Cleanup(func() { _ = sessions.Close() })

	claims, err := twofactor.New(twofactor.Config{Secrets: signingSecret}, sessions, twofactor.WithClock(clk.Now))
	require.NoError(t, err)

	codec, err := secretbox.New(secretbox.Config{EncryptionKey: encryptionKey})
	require.NoError(t, err)

	deps := account.Deps{
		Sessions:  sessions,
		Claims:    claims,
		Auth:      auth.NewService(auth.NewMemoryStorage(), auth.WithBcryptCost(bcrypt.MinCost)),
		TwoFactor: svctwofactor.NewService(svctwofactor.NewMemoryStorage(), codec, svctwofactor.WithClock(clk.Now)),
		Providers: map[string]auth.ProviderAdapter{
			"google": fakeAdapter{id: auth.ProviderGoogle, profile: auth.ProviderProfile{
				ProviderUserID: "g-1",
				Email:          "sso@example.com",
				EmailVerified:  true,
				Name:           "Sso User",
			}},
		},
		Codec: codec,
		Now:   clk.Now,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router, err := account.Router(deps)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, clock: clk, deps: deps}
}

// browser is one cookie jar, i.e. one user agent.
type browser struct {
	t      *testing.T
	env    *testEnv
	client *http.Client
}

func (e *testEnv) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:   t,
		env: e,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	status int
	header http.Header
	body   map[string]any
}

func (b *browser) do(method, path string, body any) response {
	b.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, b.env.server.URL+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode, header: resp.Header}
	if resp.ContentLength != 0 && resp.Header.Get("Content-Type") != "" {
		_ = json.NewDecoder(resp.Body).Decode(&out.body)
	}
	return out
}

func (b *browser) register(email string) string {
	b.t.Helper()
	resp := b.do(http.MethodPost, "/auth/register", map[string]string{
		"email": email, "name": "Test", "password": password,
	})
	require.Equal(b.t, http.StatusCreated, resp.status)
	return resp.body["id"].(string)
}

func (b *browser) login(email, code string) response {
	b.t.Helper()
	return b.do(http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password, "code": code,
	})
}

// oauthLogin runs start and callback against the fake provider and returns
// the callback response.
func (b *browser) oauthLogin(provider string) response {
	b.t.Helper()
	start := b.do(http.MethodGet, "/auth/oauth/"+provider, nil)
	require.Equal(b.t, http.StatusFound, start.status)

	loc, err := url.Parse(start.header.Get("Location"))
	require.NoError(b.t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(b.t, state)

	return b.do(http.MethodGet, "/auth/oauth/"+provider+"/callback?code=good&state="+url.QueryEscape(state), nil)
}

// enroll walks setup and enable and returns the TOTP secret and recovery codes.
func (b *browser) enroll() (string, []string) {
	b.t.Helper()
	setup := b.do(http.MethodPost, "/security/2fa/setup", nil)
	require.Equal(b.t, http.StatusOK, setup.status)
	secret := setup.body["secret"].(string)

	enable := b.do(http.MethodPost, "/security/2fa/enable", map[string]string{"code": b.env.code(b.t, secret)})
	require.Equal(b.t, http.StatusOK, enable.status)

	var codes []string
	for _, c := range enable.body["recoveryCodes"].([]any) {
		codes = append(codes, c.(string))
	}
	return secret, codes
}

func (e *testEnv) code(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, e.clock.Now())
	require.NoError(t, err)
	return code
}

// enableFor turns on 2FA for a user directly through the service.
func (e *testEnv) enableFor(t *testing.T, userID, email string) (string, []string) {
	t.Helper()
	ctx := context.Background()
	id := uuid.MustParse(userID)
	enr, err := e.deps.TwoFactor.Setup(ctx, id, email)
	require.NoError(t, err)
	codes, err := e.deps.TwoFactor.Activate(ctx, id, enr.Secret, e.code(t, enr.Secret))
	require.NoError(t, err)
	return enr.Secret, codes
}

func userIDOf(t *testing.T, resp response) string {
	t.Helper()
	user, ok := resp.body["user"].(map[string]any)
	require.True(t, ok, "response has no user: %v", resp.body)
	return user["id"].(string)
}

func stateFrom(t *testing.T, resp response) string {
	t.Helper()
	loc, err := url.Parse(resp.header.Get("Location"))
	require.NoError(t, err)
	return url.QueryEscape(loc.Query().Get("state"))
}
