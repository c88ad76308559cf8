package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// Codec protects a single short secret string at rest.
type Codec interface {
	// Enabled reports whether values are actually encrypted.
	Enabled() bool
	// Encrypt seals plaintext into a fresh envelope.
	Encrypt(plaintext string) (string, error)
	// Decrypt opens an envelope produced by Encrypt.
	Decrypt(envelope string) (string, error)
	// MaybeEncrypt encrypts unless the codec is disabled or value is already an envelope.
	MaybeEncrypt(plaintext string) (string, error)
	// MaybeDecrypt decrypts envelopes and returns legacy plaintext unchanged.
	MaybeDecrypt(value string) (string, error)
}

// New picks the codec once, at startup: AES-256-GCM when a key is configured,
// pass-through otherwise. A present but malformed key is an error.
func New(cfg Config) (Codec, error) {
	key, err := LoadKey(cfg)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return NullCodec{}, nil
	}
	return NewAESGCMCodec(key), nil
}

// NullCodec is the pass-through codec used when no key is configured.
type NullCodec struct{}

func (NullCodec) Enabled() bool { return false }

func (NullCodec) Encrypt(string) (string, error) {
	return "", errors.Join(ErrConfiguration, ErrKeyNotConfigured)
}

func (NullCodec) Decrypt(string) (string, error) {
	return "", errors.Join(ErrConfiguration, ErrKeyNotConfigured)
}

func (NullCodec) MaybeEncrypt(plaintext string) (string, error) {
	return plaintext, nil
}

// MaybeDecrypt fails for envelopes: the value is ciphertext and must never be
// handed out as if it were the secret.
func (c NullCodec) MaybeDecrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	return c.Decrypt(value)
}

// AESGCMCodec seals values with AES-256-GCM and a random 12-byte IV per call.
type AESGCMCodec struct {
	key *Key
}

func NewAESGCMCodec(key *Key) *AESGCMCodec {
	return &AESGCMCodec{key: key}
}

func (c *AESGCMCodec) Enabled() bool { return true }

func (c *AESGCMCodec) Encrypt(plaintext string) (string, error) {
	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	split := len(sealed) - tagSize

	return envelope{
		iv:         iv,
		ciphertext: sealed[:split],
		tag:        sealed[split:],
	}.String(), nil
}

func (c *AESGCMCodec) Decrypt(value string) (string, error) {
	env, err := parseEnvelope(value)
	if err != nil {
		return "", err
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(env.ciphertext)+len(env.tag))
	sealed = append(sealed, env.ciphertext...)
	sealed = append(sealed, env.tag...)

	plaintext, err := aead.Open(nil, env.iv, sealed, nil)
	if err != nil {
		return "", ErrAuthentication
	}
	return string(plaintext), nil
}

func (c *AESGCMCodec) MaybeEncrypt(plaintext string) (string, error) {
	if IsEncrypted(plaintext) {
		return plaintext, nil
	}
	return c.Encrypt(plaintext)
}

func (c *AESGCMCodec) MaybeDecrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	return c.Decrypt(value)
}

// aead builds the GCM instance from the enclave. The cipher keeps its own
// expanded key schedule, so the locked buffer is destroyed right away.
func (c *AESGCMCodec) aead() (cipher.AEAD, error) {
	buf, err := c.key.open()
	if err != nil {
		return nil, err
	}
	defer buf.Destroy()

	block, err := aes.NewCipher(buf.Bytes())
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	return cipher.NewGCM(block)
}
