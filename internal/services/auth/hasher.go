package auth

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost is the bcrypt work factor used when none is configured
const DefaultCost = 10

// MaxCost caps the work factor so a misconfiguration cannot stall logins
const MaxCost = 14

// Hasher produces and checks bcrypt password digests.
// At most `workers` hashes run at once; further callers wait on the
// semaphore, or give up when their context is cancelled.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher creates a Hasher. A cost outside [bcrypt.MinCost, MaxCost] is
// clamped and a non-positive worker count means GOMAXPROCS.
func NewHasher(cost, workers int) *Hasher {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > MaxCost:
		cost = MaxCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(workers)),
	}
}

// Cost returns the effective bcrypt work factor
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt digest of plaintext
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest or a
// cancelled context is a mismatch.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
