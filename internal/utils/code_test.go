package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfirmationCode_Unique(t *testing.T) {
	first, err := GenerateConfirmationCode()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := GenerateConfirmationCode()
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "Consecutive codes should differ")
}

func TestHashCode_VerifyRoundTrip(t *testing.T) {
	code, err := GenerateConfirmationCode()
	require.NoError(t, err)

	hash, err := HashCode(code)
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$", "Hash should use the argon2id format")
	assert.NotContains(t, hash, code, "Plaintext code must not appear in the hash")

	ok, err := VerifyCode(code, hash)
	require.NoError(t, err)
	assert.True(t, ok, "Matching code should verify")
}

func TestVerifyCode_Mismatch(t *testing.T) {
	hash, err := HashCode("correct-code")
	require.NoError(t, err)

	ok, err := VerifyCode("wrong-code", hash)
	require.NoError(t, err)
	assert.False(t, ok, "Mismatched code must not verify")
}

func TestVerifyCode_MalformedHash(t *testing.T) {
	ok, err := VerifyCode("anything", "not-an-encoded-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
	assert.False(t, ok)
}

func TestHashCode_SaltedHashesDiffer(t *testing.T) {
	first, err := HashCode("same-code")
	require.NoError(t, err)
	second, err := HashCode("same-code")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "Each hash should use a fresh salt")
}
