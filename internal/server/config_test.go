package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/internal/server"
	"github.com/boardly/boardly/pkg/config"
	"github.com/boardly/boardly/pkg/cookie"
	"github.com/boardly/boardly/pkg/twofactor"
)

func TestConfig_Load(t *testing.T) {
	t.Setenv("TWO_FACTOR_SECRET", signingSecret)
	t.Setenv("COOKIE_SECRETS", cookieSecret)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("GOOGLE_OAUTH_CLIENT_ID", "google-client")
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	var cfg server.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, twofactor.DefaultCookieName, cfg.TwoFactor.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.TwoFactor.TTL)
	assert.Equal(t, time.Duration(0), cfg.TwoFactor.ClockSkew)
	assert.Equal(t, 5, cfg.CodeLimit.Burst)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.Google.Enabled())
	assert.False(t, cfg.GitHub.Enabled())
	assert.Equal(t, []string{"openid", "email", "profile"}, cfg.Google.Scopes)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Postgres.Enabled())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*server.Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*server.Config) {}},
		{name: "missing signing secret", mutate: func(c *server.Config) { c.TwoFactor.Secrets = "" }, wantErr: twofactor.ErrConfiguration},
		{name: "missing cookie secret", mutate: func(c *server.Config) { c.Cookie.Secrets = "" }, wantErr: cookie.ErrNoSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	cfg := testConfig(t)
	cfg.Secretbox.EncryptionKey = "zz"
	assert.Error(t, cfg.Validate())
	cfg = testConfig(t)
	cfg.CodeLimit.Burst = 0
	assert.Error(t, cfg.Validate())
}
