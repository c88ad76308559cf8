package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/boardly/boardly/pkg/twofactor"
)

// Login paths recorded on the session. Only ProviderCredentials asks for the
// TOTP code as part of sign-in.
const (
	ProviderCredentials = twofactor.ProviderCredentials
	ProviderGoogle      = "google"
	ProviderGithub      = "github"
)

// User is a boardly account.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}
