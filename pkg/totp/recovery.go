package totp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// DefaultRecoveryCodes is how many codes are issued when 2FA is enabled.
const DefaultRecoveryCodes = 10

// GenerateRecoveryCodes returns count single-use codes of 16 upper-case hex
// characters (64 bits each).
func GenerateRecoveryCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidRecoveryCodeCount
	}

	codes := make([]string, count)
	buf := make([]byte, 8)
	for i := range count {
		if _, err := rand.Read(buf); err != nil {
			return nil, errors.Join(ErrFailedToGenerateRecoveryCode, err)
		}
		codes[i] = strings.ToUpper(hex.EncodeToString(buf))
	}
	return codes, nil
}

// HashRecoveryCode returns the stored form of code. Input is normalised first,
// so "abcd-ef01 2345 6789" and "ABCDEF0123456789" hash the same.
func HashRecoveryCode(code string) string {
	sum := sha256.Sum256([]byte(normalizeRecoveryCode(code)))
	return hex.EncodeToString(sum[:])
}

// VerifyRecoveryCode compares code with one stored hash in constant time.
func VerifyRecoveryCode(code, hashedCode string) bool {
	return subtle.ConstantTimeCompare([]byte(HashRecoveryCode(code)), []byte(hashedCode)) == 1
}

// MatchRecoveryCode returns the index of the hash matching code, or -1. Every
// hash is compared so the timing does not reveal the position.
func MatchRecoveryCode(code string, hashes []string) int {
	computed := []byte(HashRecoveryCode(code))
	match := -1
	for i, h := range hashes {
		if subtle.ConstantTimeCompare(computed, []byte(h)) == 1 {
			match = i
		}
	}
	return match
}

func normalizeRecoveryCode(code string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\t':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(code)))
}
