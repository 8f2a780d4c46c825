package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

var ErrMissingSecret = errors.New("TOKEN_SECRET must be set")

// Config is the server configuration, read once at startup
type Config struct {
	Port        int
	TokenSecret []byte

	StorageType string
	RedisURL    string
	PostgresDSN string

	BcryptCost  int
	HashWorkers int

	LogLevel slog.Level

	// Requests per second allowed per client on the /api/user routes. Zero disables limiting.
	AuthRateLimit float64
	AuthRateBurst int
}

// Load reads the optional env files, then the process environment.
// Files never override variables that are already set.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:          4000,
		StorageType:   StorageMemory,
		RedisURL:      "redis://localhost:6379",
		BcryptCost:    10,
		LogLevel:      slog.LevelInfo,
		AuthRateLimit: 5,
		AuthRateBurst: 10,
	}

	secret := getenv("TOKEN_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}
	cfg.TokenSecret = []byte(secret)

	var err error
	if cfg.Port, err = intVar(getenv, "PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = intVar(getenv, "BCRYPT_COST", cfg.BcryptCost); err != nil {
		return nil, err
	}
	if cfg.HashWorkers, err = intVar(getenv, "HASH_WORKERS", cfg.HashWorkers); err != nil {
		return nil, err
	}
	if cfg.AuthRateBurst, err = intVar(getenv, "AUTH_RATE_BURST", cfg.AuthRateBurst); err != nil {
		return nil, err
	}
	if v := getenv("AUTH_RATE_LIMIT"); v != "" {
		if cfg.AuthRateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("AUTH_RATE_LIMIT: %w", err)
		}
	}

	if v := getenv("STORAGE_TYPE"); v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	switch cfg.StorageType {
	case StorageMemory:
	case StorageRedis:
		if v := getenv("REDIS_URL"); v != "" {
			cfg.RedisURL = v
		}
	case StoragePostgres:
		cfg.PostgresDSN = getenv("DBHOST")
		if cfg.PostgresDSN == "" {
			return nil, errors.New("DBHOST must be set when STORAGE_TYPE is postgres")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or postgres", cfg.StorageType)
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func intVar(getenv func(string) string, name string, def int) (int, error) {
	v := getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
