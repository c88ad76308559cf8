package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/cookie"
)

const (
	secret    = "this-is-a-very-long-secret-key-32-chars-long"
	oldSecret = "this-is-old-very-long-secret-key-32-chars-ok"
)

// roundTrip copies the cookies written to rec into a fresh request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		secrets []string
		wantErr error
	}{
		{name: "no secrets", secrets: []string{}, wantErr: cookie.ErrNoSecret},
		{name: "empty secrets", secrets: []string{"", ""}, wantErr: cookie.ErrNoSecret},
		{name: "secret too short", secrets: []string{"short"}, wantErr: cookie.ErrSecretTooShort},
		{name: "valid secret", secrets: []string{secret}},
		{name: "multiple secrets with rotation", secrets: []string{secret, oldSecret}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := cookie.New(tt.secrets)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManager_SetGet(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret})
	require.NoError(t, err)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"simple", "test", "value"},
		{"empty value", "empty", ""},
		{"dotted token", "2fa_verified", "eyJ1c2VySWQiOiIxIn0.c2lnbmF0dXJl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			m.Set(rec, tt.key, tt.value)

			got, err := m.Get(roundTrip(rec), tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestManager_GetMissing(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret})
	require.NoError(t, err)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "missing")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)

	_, err = m.GetEncrypted(httptest.NewRequest(http.MethodGet, "/", nil), "missing")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_DefaultAttributes(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret}, cookie.WithSecure(true), cookie.WithMaxAge(604800))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Set(rec, "name", "value")

	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, "Path=/")
	assert.Contains(t, header, "Max-Age=604800")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=Lax")

	defaults := m.Defaults()
	assert.Equal(t, "/", defaults.Path)
	assert.True(t, defaults.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, defaults.SameSite)
}

func TestManager_PerCallOptionsDoNotLeak(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Set(rec, "a", "1", cookie.WithPath("/admin"), cookie.WithSecure(true))
	m.Set(rec, "b", "2")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "/admin", cookies[0].Path)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "/", cookies[1].Path)
	assert.False(t, cookies[1].Secure)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret}, cookie.WithSecure(true))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Delete(rec, "2fa_verified")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)

	header := rec.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "2fa_verified=;"))
	assert.Contains(t, header, "Max-Age=0")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "HttpOnly")
}

func TestManager_Encrypted(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.SetEncrypted(rec, "sid", "opaque-session-token"))

	raw := rec.Result().Cookies()[0].Value
	assert.NotContains(t, raw, "opaque-session-token")

	got, err := m.GetEncrypted(roundTrip(rec), "sid")
	require.NoError(t, err)
	assert.Equal(t, "opaque-session-token", got)

	rec2 := httptest.NewRecorder()
	require.NoError(t, m.SetEncrypted(rec2, "sid", "opaque-session-token"))
	assert.NotEqual(t, raw, rec2.Result().Cookies()[0].Value, "nonce must differ per seal")
}

func TestManager_EncryptedRotation(t *testing.T) {
	t.Parallel()
	previous, err := cookie.New([]string{oldSecret})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{secret, oldSecret})
	require.NoError(t, err)
	fresh, err := cookie.New([]string{secret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, previous.SetEncrypted(rec, "sid", "token"))

	got, err := rotated.GetEncrypted(roundTrip(rec), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token", got)

	_, err = fresh.GetEncrypted(roundTrip(rec), "sid")
	assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
}

func TestManager_EncryptedTampered(t *testing.T) {
	t.Parallel()
	m, err := cookie.New([]string{secret})
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "not base64", value: "!!!", wantErr: cookie.ErrInvalidFormat},
		{name: "too short", value: "AAAA", wantErr: cookie.ErrInvalidFormat},
		{name: "garbage", value: strings.Repeat("A", 64), wantErr: cookie.ErrDecryptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "sid", Value: tt.value})
			_, err := m.GetEncrypted(req, "sid")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{
		Secrets:  " " + secret + " , " + oldSecret,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	require.NoError(t, err)
	assert.True(t, m.Defaults().Secure)
	assert.Equal(t, http.SameSiteStrictMode, m.Defaults().SameSite)

	_, err = cookie.NewFromConfig(cookie.Config{})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	assert.ErrorIs(t, cookie.Config{Secrets: " , "}.Validate(), cookie.ErrNoSecret)
	assert.NoError(t, cookie.Config{Secrets: secret}.Validate())
}
