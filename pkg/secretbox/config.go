package secretbox

// Config holds the at-rest encryption settings for stored TOTP secrets.
// An empty EncryptionKey switches the codec into pass-through mode.
type Config struct {
	EncryptionKey string `env:"TOTP_ENCRYPTION_KEY"`
	// DeriveKey runs the configured key through HKDF-SHA256 before use.
	// Envelopes keep the same format, but values sealed with one setting
	// cannot be opened with the other.
	DeriveKey bool `env:"TOTP_ENCRYPTION_KDF" envDefault:"false"`
}
