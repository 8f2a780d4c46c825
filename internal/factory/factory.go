package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/mythcatalog/internal/api"
	"github.com/mcoot/mythcatalog/internal/api/middleware"
	"github.com/mcoot/mythcatalog/internal/config"
	"github.com/mcoot/mythcatalog/internal/dependencies/clock"
	"github.com/mcoot/mythcatalog/internal/dependencies/random"
	"github.com/mcoot/mythcatalog/internal/services/auth"
	"github.com/mcoot/mythcatalog/internal/services/catalog"
	"github.com/mcoot/mythcatalog/internal/storage"
	"github.com/mcoot/mythcatalog/internal/storage/memory"
	"github.com/mcoot/mythcatalog/internal/storage/postgres"
	redisstorage "github.com/mcoot/mythcatalog/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageMemory
	StorageTypeRedis    = config.StorageRedis
	StorageTypePostgres = config.StoragePostgres
)

// rateLimitIdle is how long an idle client keeps its bucket
const rateLimitIdle = 10 * time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Hasher         *auth.Hasher
	Tokens         *auth.Tokens
	AuthService    *auth.Service
	CatalogService *catalog.Service

	RateLimiter *middleware.RateLimiter
	Logger      *slog.Logger

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// TokenSecret signs and verifies access tokens (required)
	TokenSecret []byte
	// BcryptCost is the password hashing cost. Zero uses auth.DefaultCost.
	BcryptCost int
	// HashWorkers bounds concurrent hash operations. Zero uses GOMAXPROCS.
	HashWorkers int
	// RateLimit throttles the user routes. A zero Rate disables it.
	RateLimit middleware.RateLimitConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
}

// ConfigFrom converts the loaded server configuration
func ConfigFrom(c *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		TokenSecret: c.TokenSecret,
		BcryptCost:  c.BcryptCost,
		HashWorkers: c.HashWorkers,
		RateLimit: middleware.RateLimitConfig{
			Rate:        c.AuthRateLimit,
			Burst:       c.AuthRateBurst,
			IdleTimeout: rateLimitIdle,
		},
		Logger:      logger,
		StorageType: c.StorageType,
		PostgresDSN: c.PostgresDSN,
	}
	if c.StorageType == config.StorageRedis {
		rc := redisstorage.DefaultConfig()
		rc.URL = c.RedisURL
		cfg.RedisConfig = &rc
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	if len(cfg.TokenSecret) == 0 {
		return nil, errors.New("TokenSecret is required")
	}

	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var (
		store  storage.Storage
		closer io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store, closer = redisStore, redisStore
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		pgStore, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, closer = pgStore, pgStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	logger.Info("storage ready", slog.String("type", storageType))

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, cfg, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	hasher := auth.NewHasher(cfg.BcryptCost, cfg.HashWorkers)
	tokens := auth.NewTokens(auth.TokenConfig{Secret: cfg.TokenSecret}, clk, rnd)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Rate > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, clk.Now)
	}

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Hasher:         hasher,
		Tokens:         tokens,
		AuthService:    auth.New(store, hasher, tokens, clk, rnd, logger),
		CatalogService: catalog.New(store, clk, rnd, logger),
		RateLimiter:    limiter,
		Logger:         logger,
	}
}

// Router builds the HTTP handler for the API
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:         a.Logger,
		AuthService:    a.AuthService,
		CatalogService: a.CatalogService,
		Storage:        a.Storage,
		RateLimiter:    a.RateLimiter,
	})
}

// Close releases the storage connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
