package totp_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/totp"
)

func TestGenerateRecoveryCodes(t *testing.T) {
	t.Parallel()

	codes, err := totp.GenerateRecoveryCodes(totp.DefaultRecoveryCodes)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	format := regexp.MustCompile(`^[0-9A-F]{16}$`)
	seen := make(map[string]bool)
	for _, c := range codes {
		assert.Regexp(t, format, c)
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}

	_, err = totp.GenerateRecoveryCodes(0)
	assert.ErrorIs(t, err, totp.ErrInvalidRecoveryCodeCount)
}

func TestRecoveryCodeHashing(t *testing.T) {
	t.Parallel()

	code := "ABCDEF0123456789"
	hash := totp.HashRecoveryCode(code)
	assert.Len(t, hash, 64)
	assert.NotContains(t, hash, code)

	assert.True(t, totp.VerifyRecoveryCode(code, hash))
	assert.True(t, totp.VerifyRecoveryCode("abcd-ef01 2345-6789", hash))
	assert.False(t, totp.VerifyRecoveryCode("ABCDEF0123456788", hash))
	assert.False(t, totp.VerifyRecoveryCode("", hash))
}

func TestMatchRecoveryCode(t *testing.T) {
	t.Parallel()

	codes, err := totp.GenerateRecoveryCodes(3)
	require.NoError(t, err)
	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = totp.HashRecoveryCode(c)
	}

	assert.Equal(t, 1, totp.MatchRecoveryCode(strings.ToLower(codes[1]), hashes))
	assert.Equal(t, -1, totp.MatchRecoveryCode("0000000000000000", hashes))
	assert.Equal(t, -1, totp.MatchRecoveryCode(codes[0], nil))
}
