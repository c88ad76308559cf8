package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/boardly/boardly/pkg/logger"
)

// NewState returns a random OAuth state token.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CheckState compares the state echoed by the provider with the one issued.
func CheckState(expected, got string) error {
	if expected == "" || got == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
		return ErrInvalidState
	}
	return nil
}

// SignIn resolves the provider profile for code and returns the matching user.
// Unknown identities are linked to an existing account with the same verified
// email, or a new account is created.
func (s *Service) SignIn(ctx context.Context, adapter ProviderAdapter, code string) (*User, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}

	profile, err := adapter.ResolveProfile(ctx, code)
	if err != nil {
		return nil, err
	}
	provider := adapter.ProviderID()

	user, err := s.storage.GetUserByIdentity(ctx, provider, profile.ProviderUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if !profile.EmailVerified {
		return nil, ErrUnverifiedEmail
	}
	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return nil, err
	}

	user, err = s.storage.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user = &User{
			ID:        uuid.New(),
			Email:     email,
			Name:      profile.Name,
			CreatedAt: s.now().UTC(),
		}
		if err := s.storage.CreateUser(ctx, user, nil); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.storage.LinkIdentity(ctx, user.ID, provider, profile.ProviderUserID); err != nil {
		return nil, fmt.Errorf("failed to link identity: %w", err)
	}

	s.logger.InfoContext(ctx, "identity linked",
		logger.UserID(user.ID),
		logger.Provider(provider),
		logger.Component("auth"),
	)
	return user, nil
}
