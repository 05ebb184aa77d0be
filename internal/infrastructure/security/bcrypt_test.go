package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, h.Verify("correct horse", hash))
	assert.False(t, h.Verify("battery staple", hash))
	assert.False(t, h.Verify("correct horse", "not-a-hash"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.DefaultCost).cost)
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).cost)
}
