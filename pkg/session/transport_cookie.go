package session

import (
	"net/http"
	"time"

	"github.com/boardly/boardly/pkg/cookie"
)

// CookieTransport carries the session token in an encrypted cookie. The browser
// only ever sees ciphertext; the token itself never leaves the server in clear.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
	options []cookie.Option
}

func NewCookieTransport(cookies *cookie.Manager, name string, opts ...cookie.Option) *CookieTransport {
	return &CookieTransport{
		cookies: cookies,
		name:    name,
		options: opts,
	}
}

func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookies.GetEncrypted(r, t.name)
	if err != nil || token == "" {
		return "", ErrSessionNotFound
	}
	return token, nil
}

func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	opts := append([]cookie.Option{cookie.WithMaxAge(int(ttl.Seconds()))}, t.options...)
	return t.cookies.SetEncrypted(w, t.name, token, opts...)
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) {
	t.cookies.Delete(w, t.name, t.options...)
}
