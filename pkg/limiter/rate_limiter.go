package limiter

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Limits configures the per-session evaluation rate.
type Limits struct {
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`
	Burst             int `json:"burst" yaml:"burst"`
	// MaxSessions bounds how many session limiters are kept; the least
	// recently seen session is forgotten first.
	MaxSessions int `json:"max_sessions" yaml:"max_sessions"`
}

// DefaultLimits allows one evaluation per second per session with a burst of 10.
func DefaultLimits() Limits {
	return Limits{RequestsPerMinute: 60, Burst: 10, MaxSessions: 10000}
}

// RateLimiter throttles evaluations per ideation session
type RateLimiter struct {
	limits   Limits
	limiters *lru.Cache[string, *rate.Limiter]
	mu       sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limits Limits) (*RateLimiter, error) {
	if limits.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("requests per minute must be positive, got %d", limits.RequestsPerMinute)
	}
	if limits.Burst <= 0 {
		limits.Burst = 1
	}

	cache, err := lru.New[string, *rate.Limiter](limits.MaxSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &RateLimiter{limits: limits, limiters: cache}, nil
}

// GetLimiter returns or creates the limiter for a session
func (rl *RateLimiter) GetLimiter(sessionID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters.Get(sessionID); ok {
		return limiter
	}

	limiter := rate.NewLimiter(rate.Limit(float64(rl.limits.RequestsPerMinute)/60.0), rl.limits.Burst)
	rl.limiters.Add(sessionID, limiter)
	return limiter
}

// Wait waits for the rate limiter to allow the request
func (rl *RateLimiter) Wait(ctx context.Context, sessionID string) error {
	if err := rl.GetLimiter(sessionID).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}
	return nil
}

// Allow checks if the request is allowed without waiting
func (rl *RateLimiter) Allow(sessionID string) bool {
	return rl.GetLimiter(sessionID).Allow()
}

// GetStats returns rate limiter statistics for a session
func (rl *RateLimiter) GetStats(sessionID string) map[string]interface{} {
	limiter := rl.GetLimiter(sessionID)

	return map[string]interface{}{
		"session_id": sessionID,
		"limit":      limiter.Limit(),
		"burst":      limiter.Burst(),
		"tokens":     limiter.Tokens(),
		"sessions":   rl.limiters.Len(),
	}
}

// Reset forgets the limiter of a session
func (rl *RateLimiter) Reset(sessionID string) {
	rl.limiters.Remove(sessionID)
}

// ResetAll forgets every session
func (rl *RateLimiter) ResetAll() {
	rl.limiters.Purge()
}
