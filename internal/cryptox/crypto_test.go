package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	h1 := HashPassword(password, salt)
	h2 := HashPassword(password, salt)
	assert.Equal(t, h1, h2)
	assert.Equal(t, "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39", hex.EncodeToString(h1))
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")
	assert.NotEqual(t, HashPassword(password, []byte("salt-1")), HashPassword(password, []byte("salt-2")))
}

func TestVerifyPassword(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, SaltSize)

	hash := HashPassword([]byte("hunter22"), salt)
	assert.True(t, VerifyPassword([]byte("hunter22"), salt, hash))
	assert.False(t, VerifyPassword([]byte("hunter23"), salt, hash))
	assert.False(t, VerifyPassword([]byte("hunter22"), salt, hash[:16]))
}

func TestNewSalt_Random(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
