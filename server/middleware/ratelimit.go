package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicenotes/errors"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// RequestsPerMinute is the maximum number of requests allowed per minute per key.
	RequestsPerMinute int
	// KeyFunc extracts the rate limit key from a request. Defaults to client IP.
	KeyFunc func(*gin.Context) string
	// Now defaults to time.Now.
	Now func() time.Time
}

// RateLimit returns a Gin middleware that applies per-key sliding-window rate limiting.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    cfg.RequestsPerMinute,
		now:      cfg.Now,
	}

	return func(c *gin.Context) {
		if !rl.allow(cfg.KeyFunc(c)) {
			abort(c, errors.RateLimited())
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

type rateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	now      func() time.Time
	calls    int
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-time.Minute)

	rl.calls++
	if rl.calls%256 == 0 {
		rl.sweep(cutoff)
	}

	valid := filterByTime(rl.requests[key], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}

// sweep drops idle keys. Callers hold mu.
func (rl *rateLimiter) sweep(cutoff time.Time) {
	for key, times := range rl.requests {
		valid := filterByTime(times, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func filterByTime(times []time.Time, cutoff time.Time) []time.Time {
	var result []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}
