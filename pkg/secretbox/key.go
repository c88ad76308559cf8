package secretbox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/hkdf"
)

const (
	KeySize = 32 // AES-256

	// kdfInfo separates keys derived for TOTP secrets from any other use of the same root key.
	kdfInfo = "boardly-totp-secret-v1"
)

var hexKeyRegex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Key is AES-256 key material kept in an encrypted memory enclave.
// The plaintext key only exists in locked memory while a seal or open is running.
type Key struct {
	enclave *memguard.Enclave
}

// NewKey moves raw into an enclave. raw is wiped on success.
func NewKey(raw []byte) (*Key, error) {
	if len(raw) != KeySize {
		return nil, errors.Join(ErrConfiguration, ErrInvalidKeyLength)
	}
	return &Key{enclave: memguard.NewEnclave(raw)}, nil
}

// ParseKey decodes a configured key. Accepted forms, tried in order:
// 64 hex characters, standard base64 of 32 bytes, a 32-byte string used verbatim.
func ParseKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, errors.Join(ErrConfiguration, ErrKeyNotConfigured)
	}

	if hexKeyRegex.MatchString(encoded) {
		if key, err := hex.DecodeString(encoded); err == nil {
			return key, nil
		}
	}

	if key, err := base64.StdEncoding.DecodeString(encoded); err == nil && len(key) == KeySize {
		return key, nil
	}

	if len(encoded) == KeySize {
		return []byte(encoded), nil
	}

	return nil, errors.Join(ErrConfiguration, ErrInvalidKey)
}

// LoadKey reads the key from cfg. It returns (nil, nil) when no key is configured,
// which callers interpret as "encryption disabled".
func LoadKey(cfg Config) (*Key, error) {
	if strings.TrimSpace(cfg.EncryptionKey) == "" {
		return nil, nil
	}

	raw, err := ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	if cfg.DeriveKey {
		derived, err := deriveKey(raw)
		clear(raw)
		if err != nil {
			return nil, err
		}
		raw = derived
	}

	return NewKey(raw)
}

// open returns the key in a locked buffer. The caller must Destroy it.
func (k *Key) open() (*memguard.LockedBuffer, error) {
	if k == nil || k.enclave == nil {
		return nil, errors.Join(ErrConfiguration, ErrKeyNotConfigured)
	}
	buf, err := k.enclave.Open()
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	return buf, nil
}

func deriveKey(root []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, root, nil, []byte(kdfInfo))
	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	return derived, nil
}

// GenerateKey creates a random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrKeyGenerationFailed, err)
	}
	return key, nil
}

// GenerateEncodedKey returns a fresh key as 64 hex characters, ready for TOTP_ENCRYPTION_KEY.
func GenerateEncodedKey() (string, error) {
	key, err := GenerateKey()
	if err != nil {
		return "", err
	}
	defer clear(key)
	return hex.EncodeToString(key), nil
}
