package token_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/token"
)

type testPayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload testPayload
		secret  string
	}{
		{name: "valid token", payload: testPayload{ID: 1, Name: "test"}, secret: "secret123"},
		{name: "empty payload", payload: testPayload{}, secret: "secret123"},
		{name: "unicode payload", payload: testPayload{ID: 7, Name: "héllo wörld"}, secret: "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tokenStr, err := token.Sign(tt.payload, tt.secret)
			require.NoError(t, err)

			parts := strings.Split(tokenStr, ".")
			require.Len(t, parts, 2)

			got, err := token.Verify[testPayload](tokenStr, tt.secret)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, got)
		})
	}
}

func TestSign_WireFormat(t *testing.T) {
	t.Parallel()

	tokenStr, err := token.Sign(testPayload{ID: 1, Name: "a"}, "secret")
	require.NoError(t, err)

	payloadEnc, sigEnc, ok := strings.Cut(tokenStr, ".")
	require.True(t, ok)

	data, err := base64.RawURLEncoding.DecodeString(payloadEnc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"a"}`, string(data))

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(payloadEnc))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), sigEnc)
}

func TestSign_MissingSecret(t *testing.T) {
	t.Parallel()
	_, err := token.Sign(testPayload{ID: 1}, "")
	assert.ErrorIs(t, err, token.ErrMissingSecret)
}

func TestVerify_Errors(t *testing.T) {
	t.Parallel()

	secret := "secret123"
	valid, err := token.Sign(testPayload{ID: 1, Name: "test"}, secret)
	require.NoError(t, err)
	payloadEnc, sigEnc, _ := strings.Cut(valid, ".")

	sig, err := base64.RawURLEncoding.DecodeString(sigEnc)
	require.NoError(t, err)
	sig[len(sig)-1] ^= 0x01
	alteredSig := payloadEnc + "." + base64.RawURLEncoding.EncodeToString(sig)

	otherPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"id":2,"name":"test"}`))

	wrongTypes := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"one","name":1}`))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(wrongTypes))
	wrongTypesToken := wrongTypes + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name    string
		token   string
		secrets []string
		wantErr error
	}{
		{name: "no dot", token: "invalidtoken", secrets: []string{secret}, wantErr: token.ErrInvalidToken},
		{name: "three segments", token: valid + ".extra", secrets: []string{secret}, wantErr: token.ErrInvalidToken},
		{name: "empty", token: "", secrets: []string{secret}, wantErr: token.ErrInvalidToken},
		{name: "bad signature encoding", token: payloadEnc + ".!!!", secrets: []string{secret}, wantErr: token.ErrInvalidToken},
		{name: "wrong secret", token: valid, secrets: []string{"other"}, wantErr: token.ErrSignatureInvalid},
		{name: "altered signature", token: alteredSig, secrets: []string{secret}, wantErr: token.ErrSignatureInvalid},
		{name: "swapped payload", token: otherPayload + "." + sigEnc, secrets: []string{secret}, wantErr: token.ErrSignatureInvalid},
		{name: "wrong field types", token: wrongTypesToken, secrets: []string{secret}, wantErr: token.ErrInvalidToken},
		{name: "no secrets", token: valid, secrets: nil, wantErr: token.ErrMissingSecret},
		{name: "empty secret", token: valid, secrets: []string{""}, wantErr: token.ErrMissingSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := token.Verify[testPayload](tt.token, tt.secrets...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerify_Rotation(t *testing.T) {
	t.Parallel()

	old, err := token.Sign(testPayload{ID: 1}, "old-secret")
	require.NoError(t, err)
	current, err := token.Sign(testPayload{ID: 2}, "new-secret")
	require.NoError(t, err)

	got, err := token.Verify[testPayload](old, "new-secret", "old-secret")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)

	got, err = token.Verify[testPayload](current, "new-secret", "old-secret")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ID)

	_, err = token.Verify[testPayload](old, "new-secret")
	assert.ErrorIs(t, err, token.ErrSignatureInvalid)
}
