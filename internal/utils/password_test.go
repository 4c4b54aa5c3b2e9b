package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2secret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2secret", hash)

	assert.True(t, VerifyPassword(hash, "hunter2secret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter2secret"))
}

func TestHashPasswordClampsInvalidCost(t *testing.T) {
	hash, err := HashPassword("hunter2secret", -1)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2secret"))

	hash, err = HashPassword("hunter2secret", 99)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2secret"))
}
