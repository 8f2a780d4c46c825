package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/mythcatalog/internal/dependencies/random"
)

// MockRandom is a deterministic implementation of Random for testing.
// Queued IDs are returned first, then "id-1", "id-2", ...
type MockRandom struct {
	mu      sync.Mutex
	queued  []string
	counter int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// NewID returns the next queued ID, or a sequential one if the queue is empty
func (r *MockRandom) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queued) > 0 {
		id := r.queued[0]
		r.queued = r.queued[1:]
		return id
	}
	r.counter++
	return fmt.Sprintf("id-%d", r.counter)
}

// QueueIDs adds values to the ID queue
func (r *MockRandom) QueueIDs(ids ...string) {
	r.mu.Lock()
	r.queued = append(r.queued, ids...)
	r.mu.Unlock()
}

// Reset clears queued IDs and the sequence counter
func (r *MockRandom) Reset() {
	r.mu.Lock()
	r.queued = nil
	r.counter = 0
	r.mu.Unlock()
}
