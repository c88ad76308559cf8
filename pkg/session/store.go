package session

import (
	"context"
	"time"
)

// Store persists sessions by token. Implementations must be safe for concurrent use:
// handlers and the activity worker write the same record.
type Store interface {
	// Create inserts a session under its token.
	Create(ctx context.Context, session *Session) error

	// Get returns ErrSessionNotFound for an unknown token and ErrSessionExpired
	// once ExpiresAt has passed.
	Get(ctx context.Context, token string) (*Session, error)

	// Update writes data, user binding and expiry. Authenticate calls it after
	// a token rotation, handlers after changing Data (OAuth state, a pending
	// TOTP secret).
	Update(ctx context.Context, session *Session) error

	// UpdateActivity records activity and the slid expiry. It must leave every
	// other field alone: a concurrent Update of session data wins.
	UpdateActivity(ctx context.Context, token string, lastActivity, expiresAt time.Time) error

	// Delete revokes a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired sweeps records past ExpiresAt. Stores with native TTLs may
	// make it a no-op.
	DeleteExpired(ctx context.Context) error
}
