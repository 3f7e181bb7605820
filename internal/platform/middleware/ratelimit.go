package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// tokenBucket is a simple token bucket refilled at a fixed rate.
type tokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

func newTokenBucket(rate float64, burst int) *tokenBucket {
	return &tokenBucket{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: rate,
		lastRefill: time.Now(),
	}
}

func (b *tokenBucket) allow() bool {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.lastRefill = now

	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// rateLimiterStore keeps one bucket per client key and evicts buckets that
// have been idle long enough to be fully refilled.
type rateLimiterStore struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	rate    float64
	burst   int
}

func newRateLimiterStore(rate float64, burst int) *rateLimiterStore {
	s := &rateLimiterStore{
		buckets: make(map[string]*tokenBucket),
		rate:    rate,
		burst:   burst,
	}
	go s.cleanup()
	return s
}

func (s *rateLimiterStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok {
		b = newTokenBucket(s.rate, s.burst)
		s.buckets[key] = b
	}
	return b.allow()
}

func (s *rateLimiterStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for key, b := range s.buckets {
			if time.Since(b.lastRefill) > 5*time.Minute {
				delete(s.buckets, key)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimit limits requests per client IP using a token bucket. rate is the
// sustained requests per second, burst the momentary allowance.
func RateLimit(rate float64, burst int) echo.MiddlewareFunc {
	store := newRateLimiterStore(rate, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()

			if !store.allow(key) {
				c.Response().Header().Set("Retry-After", "1")
				c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", burst))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
