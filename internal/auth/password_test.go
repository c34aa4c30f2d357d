package auth

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher() *Hasher {
	return &Hasher{Cost: bcrypt.MinCost}
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("redline-1968")
	require.NoError(t, err)
	assert.NotEqual(t, "redline-1968", hash)

	assert.NoError(t, h.Verify("redline-1968", hash))
	assert.ErrorIs(t, h.Verify("redline-1969", hash), ErrPasswordMismatch)
}

func TestHasher_LengthLimits(t *testing.T) {
	h := testHasher()

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = h.Hash(strings.Repeat("x", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	err := testHasher().Verify("whatever1", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	raw, err := base64.URLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}
