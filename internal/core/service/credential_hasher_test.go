package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillsync/marketplace-api/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	require.True(t, h.Verify("secret123", hash))
	require.False(t, h.Verify("secret124", hash))
	require.False(t, h.Verify("", hash))
}

func TestBcryptHasher_SaltedPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.True(t, h.Verify("same-password", a))
	require.True(t, h.Verify("same-password", b))
}

func TestBcryptHasher_MalformedHashDoesNotVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, stored := range []string{"", "plaintext", "$2a$04$short", strings.Repeat("x", 60)} {
		require.NotPanics(t, func() {
			require.False(t, h.Verify("secret123", stored))
		})
	}
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBcryptHasher_TruncatesLongPasswords(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	prefix := strings.Repeat("a", maxPasswordBytes)

	hash, err := h.Hash(prefix + "tail-one")
	require.NoError(t, err)

	// Only the first 72 bytes participate.
	require.True(t, h.Verify(prefix+"tail-two", hash))
	require.True(t, h.Verify(prefix, hash))
	require.False(t, h.Verify(prefix[:maxPasswordBytes-1], hash))
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash("secret123")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.MinCost, cost)
}

func TestNewBcryptHasher_OutOfRangeCostFallsBack(t *testing.T) {
	require.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
	require.Equal(t, DefaultBcryptCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	require.Equal(t, 10, NewBcryptHasher(10).cost)
}
