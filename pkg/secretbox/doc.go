// Package secretbox encrypts short secrets, such as TOTP shared secrets, before
// they are written to storage.
//
// Values are sealed with AES-256-GCM and serialised as a self-describing envelope:
//
//	enc:v1:<hex iv>:<hex ciphertext>:<hex tag>
//
// The prefix lets readers tell envelopes from plaintext rows written before
// encryption was enabled, so a deployment can migrate without rewriting data.
//
// # Key configuration
//
// The key is read from TOTP_ENCRYPTION_KEY and may be 64 hex characters, base64
// of 32 bytes, or a 32-byte string. A key that is present but malformed is an
// ErrConfiguration; an absent key selects NullCodec, which passes values through.
//
//	codec, err := secretbox.New(cfg)
//	if err != nil {
//	    // fail startup
//	}
//	stored, err := codec.MaybeEncrypt(secret)
//	...
//	secret, err = codec.MaybeDecrypt(stored)
//
// # Errors
//
// Decrypt distinguishes ErrInvalidPayload (malformed envelope) from
// ErrAuthentication (tag mismatch). Both are hard failures; neither is ever
// downgraded to treating ciphertext as plaintext.
package secretbox
