package secretbox_test

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/secretbox"
)

func TestParseKey(t *testing.T) {
	t.Parallel()

	raw := []byte("0123456789abcdef0123456789abcdef")

	tests := []struct {
		name    string
		encoded string
		want    []byte
		wantErr error
	}{
		{name: "hex lower", encoded: hex.EncodeToString(raw), want: raw},
		{name: "hex upper", encoded: strings.ToUpper(hex.EncodeToString(raw)), want: raw},
		{name: "base64", encoded: base64.StdEncoding.EncodeToString(raw), want: raw},
		{name: "ascii", encoded: string(raw), want: raw},
		{name: "surrounding whitespace", encoded: "  " + hex.EncodeToString(raw) + "\n", want: raw},
		{name: "empty", encoded: "", wantErr: secretbox.ErrKeyNotConfigured},
		{name: "too short", encoded: "short", wantErr: secretbox.ErrInvalidKey},
		{name: "base64 of 16 bytes", encoded: base64.StdEncoding.EncodeToString(raw[:16]), wantErr: secretbox.ErrInvalidKey},
		{name: "63 hex chars", encoded: hex.EncodeToString(raw)[:63], wantErr: secretbox.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := secretbox.ParseKey(tt.encoded)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, secretbox.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadKey(t *testing.T) {
	t.Parallel()

	key, err := secretbox.LoadKey(secretbox.Config{})
	require.NoError(t, err)
	assert.Nil(t, key, "absent key means encryption disabled")

	key, err = secretbox.LoadKey(secretbox.Config{EncryptionKey: testKeyHex})
	require.NoError(t, err)
	assert.NotNil(t, key)

	_, err = secretbox.LoadKey(secretbox.Config{EncryptionKey: "not-a-key"})
	assert.ErrorIs(t, err, secretbox.ErrConfiguration)
}

func TestNewKey_InvalidLength(t *testing.T) {
	t.Parallel()
	_, err := secretbox.NewKey(make([]byte, 16))
	assert.ErrorIs(t, err, secretbox.ErrInvalidKeyLength)
}

func TestGenerateEncodedKey(t *testing.T) {
	t.Parallel()

	encoded, err := secretbox.GenerateEncodedKey()
	require.NoError(t, err)
	assert.Len(t, encoded, 64)

	codec, err := secretbox.New(secretbox.Config{EncryptionKey: encoded})
	require.NoError(t, err)
	assert.True(t, codec.Enabled())

	other, err := secretbox.GenerateEncodedKey()
	require.NoError(t, err)
	assert.NotEqual(t, encoded, other)
}
