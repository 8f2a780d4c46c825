package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	digest, err := h.Hash(ctx, "StrongPass123")
	require.NoError(t, err)

	assert.NotEqual(t, "StrongPass123", digest)
	assert.True(t, h.Verify(ctx, "StrongPass123", digest))
	assert.False(t, h.Verify(ctx, "StrongPass124", digest))
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	a, err := h.Hash(ctx, "StrongPass123")
	require.NoError(t, err)
	b, err := h.Hash(ctx, "StrongPass123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(ctx, "StrongPass123", a))
	assert.True(t, h.Verify(ctx, "StrongPass123", b))
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)

	assert.NotPanics(t, func() {
		assert.False(t, h.Verify(context.Background(), "StrongPass123", "not-a-digest"))
		assert.False(t, h.Verify(context.Background(), "StrongPass123", ""))
	})
}

func TestNewHasherCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(0, 1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewHasher(1, 1).Cost())
	assert.Equal(t, MaxCost, NewHasher(31, 1).Cost())
	assert.Equal(t, 12, NewHasher(12, 1).Cost())
}

func TestHashHonoursCancelledContext(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)

	// Hold the only slot so the next caller has to wait
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "StrongPass123")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.Verify(ctx, "StrongPass123", "irrelevant"))
}
