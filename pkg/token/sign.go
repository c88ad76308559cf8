package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
)

const separator = "."

// Sign JSON encodes payload and appends an HMAC-SHA256 signature of the encoded segment.
func Sign[T any](payload T, secret string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	payloadEnc := base64.RawURLEncoding.EncodeToString(data)
	sigEnc := base64.RawURLEncoding.EncodeToString(signature(payloadEnc, secret))

	return payloadEnc + separator + sigEnc, nil
}

func signature(payloadEnc, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payloadEnc))
	return h.Sum(nil)
}
