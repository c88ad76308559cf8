package secretbox

import (
	"encoding/hex"
	"strings"
)

const (
	// Prefix marks a stored value as an envelope rather than legacy plaintext.
	Prefix = "enc:v1:"

	ivSize  = 12
	tagSize = 16
)

// IsEncrypted reports whether value carries the envelope prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

type envelope struct {
	iv         []byte
	ciphertext []byte
	tag        []byte
}

func (e envelope) String() string {
	return Prefix + hex.EncodeToString(e.iv) +
		":" + hex.EncodeToString(e.ciphertext) +
		":" + hex.EncodeToString(e.tag)
}

func parseEnvelope(value string) (envelope, error) {
	if !IsEncrypted(value) {
		return envelope{}, ErrInvalidPayload
	}

	parts := strings.Split(strings.TrimPrefix(value, Prefix), ":")
	if len(parts) != 3 {
		return envelope{}, ErrInvalidPayload
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivSize {
		return envelope{}, ErrInvalidPayload
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return envelope{}, ErrInvalidPayload
	}
	tag, err := hex.DecodeString(parts[2])
	if err != nil || len(tag) != tagSize {
		return envelope{}, ErrInvalidPayload
	}

	return envelope{iv: iv, ciphertext: ciphertext, tag: tag}, nil
}
