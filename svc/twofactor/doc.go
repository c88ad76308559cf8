// Package twofactor implements TOTP enrollment and verification for boardly
// accounts on top of pkg/totp and pkg/secretbox.
//
// The flow is Setup (secret + otpauth URI + QR code, nothing stored), then
// Activate with the pending secret and a first code, which stores the secret
// through the codec and returns one-time recovery codes. Verify and
// VerifyRecoveryCode are what the HTTP layer calls before minting the
// session-bound claim of pkg/twofactor.
//
// Records live in a Storage: MemoryStorage, BoltStorage (go.etcd.io/bbolt) or
// PostgresStorage (pgx).
package twofactor
