package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/mythcatalog/internal/api/apierr"
)

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	// Requests per second each client may sustain. Zero disables limiting.
	Rate  float64
	Burst int
	// Idle limiters are dropped after this long
	IdleTimeout time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP
type RateLimiter struct {
	cfg     RateLimitConfig
	now     func() time.Time
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter creates a RateLimiter
func NewRateLimiter(cfg RateLimitConfig, now func() time.Time) *RateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	return &RateLimiter{
		cfg:     cfg,
		now:     now,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether the client may make another request now
func (l *RateLimiter) Allow(client string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.cfg.IdleTimeout {
			delete(l.clients, key)
		}
	}

	c, ok := l.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RateLimit creates middleware rejecting clients that exceed their bucket
func RateLimit(l *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil || l.cfg.Rate <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				apierr.WriteError(w, apierr.NewTooManyRequestsError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
