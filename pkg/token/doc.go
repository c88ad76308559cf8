// Package token provides compact, signed tokens for embedding JSON payloads.
//
// Token format: base64url(JSON(payload)) + "." + base64url(HMAC-SHA256(payload_b64, secret))
//
// The MAC is computed over the encoded payload segment exactly as it appears on
// the wire, so a token can be checked before anything in it is decoded. The full
// 32-byte HMAC is kept: tokens built here guard session state and are long-lived.
//
// # Usage
//
//	import "github.com/boardly/boardly/pkg/token"
//
//	type Payload struct {
//	    UserID string `json:"uid"`
//	    Exp    int64  `json:"exp"`
//	}
//
//	tok, err := token.Sign(Payload{"42", time.Now().Add(time.Hour).Unix()}, secret)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := token.Verify[Payload](tok, secret, previousSecret)
//	if err != nil {
//	    // treat as "no token"
//	}
//
// Verify accepts several secrets so a signing secret can be rotated without
// invalidating tokens issued under the previous one. Sign always uses one.
//
// Returns ErrInvalidToken for malformed tokens, ErrSignatureInvalid for signature
// mismatches and ErrMissingSecret when called without a usable secret.
package token
