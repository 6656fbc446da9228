package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	ok, err := h.Matches(hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Matches(hash, "secret2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Matches("not-a-hash", "secret1")
	assert.Error(t, err)

	h.Burn("anything")
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(1).cost)
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).cost)
}
