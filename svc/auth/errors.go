package auth

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password does not meet security requirements")
)

var (
	ErrUnknownProvider = errors.New("unknown OAuth provider")
	ErrInvalidState    = errors.New("invalid OAuth state")
	ErrInvalidCode     = errors.New("invalid OAuth code")
	ErrUnverifiedEmail = errors.New("email not verified by provider")
	ErrNoPrimaryEmail  = errors.New("no primary email from provider")
)
