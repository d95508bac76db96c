package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, CompareHashAndPassword(hash, "pw123456"))
	assert.False(t, CompareHashAndPassword(hash, "pw1234567"))
}

func TestHashPassword_Salted(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestCompareHashAndPassword_GarbageHash(t *testing.T) {
	assert.False(t, CompareHashAndPassword("not-a-hash", "pw"))
}
