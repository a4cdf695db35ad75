package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()

	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("Password1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1!", hash)

	ok, err := h.Verify("Password1!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashUniquePerCall(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("Password1!")
	require.NoError(t, err)
	second, err := h.Hash("Password1!")
	require.NoError(t, err)

	// Per-call salt: identical passwords never share a hash.
	assert.NotEqual(t, first, second)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := newTestHasher(t)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestVerifyCorruptHash(t *testing.T) {
	h := newTestHasher(t)

	for _, corrupt := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage"} {
		ok, err := h.Verify("Password1!", corrupt)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrCorruptHash, "hash %q", corrupt)
	}
}

func TestNewHasherCostBounds(t *testing.T) {
	_, err := NewHasher(bcrypt.MinCost - 1)
	assert.Error(t, err)

	_, err = NewHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)

	_, err = NewHasher(DefaultCost)
	assert.NoError(t, err)
}

func TestNeedsUpgrade(t *testing.T) {
	low, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	high, err := NewHasher(bcrypt.MinCost + 2)
	require.NoError(t, err)

	hash, err := low.Hash("Password1!")
	require.NoError(t, err)

	needs, err := high.NeedsUpgrade(hash)
	require.NoError(t, err)
	assert.True(t, needs)

	needs, err = low.NeedsUpgrade(hash)
	require.NoError(t, err)
	assert.False(t, needs)

	_, err = high.NeedsUpgrade("garbage")
	assert.ErrorIs(t, err, ErrCorruptHash)
}
