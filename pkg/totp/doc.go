// Package totp wraps github.com/pquerna/otp with the parameters boardly uses
// (RFC 6238, SHA1, 6 digits, 30-second steps, one step of drift either way) and
// provides single-use recovery codes.
//
// Secrets are Base32 strings. This package never stores them; callers encrypt
// them at rest with pkg/secretbox.
//
//	enr, err := totp.Enroll("Boardly", user.Email)
//	// show enr.URI as a QR code, keep enr.Secret pending until confirmed
//
//	ok, err := totp.ValidateTOTP(secret, code)
//
// Recovery codes are 16 hex characters. Only HashRecoveryCode output is stored;
// MatchRecoveryCode finds which stored hash a submitted code belongs to.
package totp
