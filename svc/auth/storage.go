package auth

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists users, their password hashes and federated identities.
type Storage interface {
	// CreateUser returns ErrEmailAlreadyExists for a taken email.
	CreateUser(ctx context.Context, user *User, passwordHash []byte) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// GetPasswordHash returns nil for users that never set a password.
	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
	LinkIdentity(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error
	GetUserByIdentity(ctx context.Context, provider, providerUserID string) (*User, error)
}
