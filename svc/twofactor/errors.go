package twofactor

import "errors"

var (
	ErrNotEnabled        = errors.New("twofactor.not_enabled")
	ErrAlreadyEnabled    = errors.New("twofactor.already_enabled")
	ErrInvalidCode       = errors.New("twofactor.invalid_code")
	ErrSetupExpired      = errors.New("twofactor.setup_expired")
	ErrTooManyAttempts   = errors.New("twofactor.too_many_attempts")
	ErrStorage           = errors.New("twofactor.storage_failure")
	ErrSecretUnavailable = errors.New("twofactor.secret_unavailable")
)
