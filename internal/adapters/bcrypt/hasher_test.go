package bcrypt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := New(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.NotContains(t, hash, "hunter22")

	require.NoError(t, h.Compare(hash, "hunter22"))
	assert.ErrorIs(t, h.Compare(hash, "hunter23"), ErrMismatch)
}

func TestHasher_CostClamped(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, New(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, New(99).Cost())
	assert.Equal(t, DefaultCost, New(DefaultCost).Cost())
}

func TestHasher_EmbedsCost(t *testing.T) {
	h := New(5)
	hash, err := h.Hash("secret")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestHasher_MalformedHash(t *testing.T) {
	err := New(bcrypt.MinCost).Compare("not-a-hash", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
