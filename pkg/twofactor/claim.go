package twofactor

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Claim is the signed payload of the verification cookie. Times are Unix
// milliseconds.
type Claim struct {
	UserID             string `json:"userId"`
	SessionFingerprint string `json:"sessionFingerprint"`
	IssuedAt           int64  `json:"issuedAt"`
	ExpiresAt          int64  `json:"expiresAt"`
}

// Fingerprint is the one-way digest of a session token stored in a claim. The
// token itself never appears in the cookie.
func Fingerprint(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}

func newClaim(userID, sessionToken string, now time.Time, ttl time.Duration) Claim {
	return Claim{
		UserID:             userID,
		SessionFingerprint: Fingerprint(sessionToken),
		IssuedAt:           now.UnixMilli(),
		ExpiresAt:          now.Add(ttl).UnixMilli(),
	}
}

// expired reports whether now is past ExpiresAt plus leeway. A claim is still
// valid at exactly ExpiresAt.
func (c Claim) expired(now time.Time, leeway time.Duration) bool {
	return now.UnixMilli() > c.ExpiresAt+leeway.Milliseconds()
}
