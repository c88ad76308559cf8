package twofactor

import (
	"log/slog"
	"time"
)

type Option func(*Manager)

// WithClock replaces time.Now. Tests use it to step across the expiry boundary.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSecureCookie sets the Secure attribute on top of Config.Secure. The
// server passes environment.IsProduction here.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) {
		m.secure = m.secure || secure
	}
}
