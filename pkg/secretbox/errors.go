package secretbox

import "errors"

var (
	// ErrConfiguration marks every failure caused by missing or malformed key material.
	// Callers must treat it as fatal and never fall back to a weaker key.
	ErrConfiguration = errors.New("secretbox: invalid configuration")

	ErrKeyNotConfigured = errors.New("encryption key is not configured")
	ErrInvalidKey       = errors.New("encryption key must be 64 hex chars, base64 of 32 bytes or a 32-byte string")
	ErrInvalidKeyLength = errors.New("invalid encryption key length")

	// ErrInvalidPayload is returned when a value is not a well-formed envelope.
	ErrInvalidPayload = errors.New("secretbox: invalid encrypted payload")

	// ErrAuthentication is returned when the GCM tag does not verify: the value was
	// tampered with or sealed under a different key.
	ErrAuthentication = errors.New("secretbox: payload failed authentication")

	ErrEncryptionFailed    = errors.New("secretbox: failed to encrypt value")
	ErrKeyGenerationFailed = errors.New("secretbox: failed to generate key")
)
