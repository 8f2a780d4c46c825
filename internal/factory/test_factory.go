package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/mythcatalog/internal/dependencies/mocks"
	"github.com/mcoot/mythcatalog/internal/storage/memory"
	"github.com/mcoot/mythcatalog/internal/testutil"
)

// TestTokenSecret signs tokens issued by a TestApp
var TestTokenSecret = []byte("test-secret")

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig is NewTestApp with overrides. Unset secret, cost and
// logger fall back to test values; storage is always in memory.
func NewTestAppWithConfig(cfg Config) *TestApp {
	if len(cfg.TokenSecret) == 0 {
		cfg.TokenSecret = TestTokenSecret
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.MinCost
	}
	logger := cfg.Logger
	if logger == nil {
		logger = testutil.NopLogger()
	}

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, cfg, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// MemoryStorage returns the in-memory store backing the app
func (t *TestApp) MemoryStorage() *memory.Storage {
	return t.Storage.(*memory.Storage)
}
