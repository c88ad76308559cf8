package token

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Verify checks the signature against each secret in turn and only then decodes
// the payload. Every comparison is constant time and all secrets are tried, so
// the response time does not reveal which secret matched.
func Verify[T any](token string, secrets ...string) (T, error) {
	var payload T

	if len(secrets) == 0 {
		return payload, ErrMissingSecret
	}

	payloadEnc, sigEnc, ok := strings.Cut(token, separator)
	if !ok || payloadEnc == "" || sigEnc == "" || strings.Contains(sigEnc, separator) {
		return payload, ErrInvalidToken
	}

	sig, err := base64.RawURLEncoding.DecodeString(sigEnc)
	if err != nil {
		return payload, errors.Join(ErrInvalidToken, err)
	}

	matched := 0
	for _, secret := range secrets {
		if secret == "" {
			return payload, ErrMissingSecret
		}
		matched |= subtle.ConstantTimeCompare(sig, signature(payloadEnc, secret))
	}
	if matched != 1 {
		return payload, ErrSignatureInvalid
	}

	data, err := base64.RawURLEncoding.DecodeString(payloadEnc)
	if err != nil {
		return payload, errors.Join(ErrInvalidToken, err)
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, errors.Join(ErrInvalidToken, err)
	}

	return payload, nil
}
