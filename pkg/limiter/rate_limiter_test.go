package limiter

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	rl, err := NewRateLimiter(DefaultLimits())
	if err != nil {
		t.Fatalf("NewRateLimiter() error = %v", err)
	}

	limiter := rl.GetLimiter("session-1")
	if limiter == nil {
		t.Fatal("Expected limiter to be created")
	}
	if rl.GetLimiter("session-1") != limiter {
		t.Error("Expected the same limiter for the same session")
	}

	if !rl.Allow("session-1") {
		t.Error("Expected first request to be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "session-1"); err != nil {
		t.Errorf("Expected wait to succeed, got error: %v", err)
	}

	stats := rl.GetStats("session-1")
	if stats["session_id"] != "session-1" {
		t.Errorf("Expected session_id to be session-1, got %v", stats["session_id"])
	}
	if stats["burst"] != 10 {
		t.Errorf("Expected burst 10, got %v", stats["burst"])
	}
}

func TestRateLimiterBurstExhaustion(t *testing.T) {
	rl, err := NewRateLimiter(Limits{RequestsPerMinute: 1, Burst: 3, MaxSessions: 10})
	if err != nil {
		t.Fatalf("NewRateLimiter() error = %v", err)
	}

	allowedCount := 0
	for i := 0; i < 10; i++ {
		if rl.Allow("busy") {
			allowedCount++
		}
	}

	if allowedCount != 3 {
		t.Errorf("Expected 3 requests to be allowed, got %d", allowedCount)
	}

	if !rl.Allow("quiet") {
		t.Error("Expected other sessions to be unaffected")
	}
}

func TestRateLimiterWaitRespectsContext(t *testing.T) {
	rl, err := NewRateLimiter(Limits{RequestsPerMinute: 1, Burst: 1, MaxSessions: 10})
	if err != nil {
		t.Fatalf("NewRateLimiter() error = %v", err)
	}

	rl.Allow("s")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "s"); err == nil {
		t.Error("Expected wait to fail once the burst is spent")
	}
}

func TestRateLimiterReset(t *testing.T) {
	rl, err := NewRateLimiter(Limits{RequestsPerMinute: 1, Burst: 1, MaxSessions: 10})
	if err != nil {
		t.Fatalf("NewRateLimiter() error = %v", err)
	}

	rl.Allow("reset-session")
	if rl.Allow("reset-session") {
		t.Fatal("Expected second request to be throttled")
	}

	rl.Reset("reset-session")
	if !rl.Allow("reset-session") {
		t.Error("Expected a fresh limiter after reset")
	}

	rl.Allow("other")
	rl.ResetAll()
	if n := rl.GetStats("x")["sessions"]; n != 1 {
		t.Errorf("Expected only the new session after ResetAll, got %v", n)
	}
}

func TestRateLimiterEvictsOldSessions(t *testing.T) {
	rl, err := NewRateLimiter(Limits{RequestsPerMinute: 1, Burst: 1, MaxSessions: 2})
	if err != nil {
		t.Fatalf("NewRateLimiter() error = %v", err)
	}

	rl.Allow("a")
	rl.Allow("b")
	rl.Allow("c")

	if !rl.Allow("a") {
		t.Error("Expected evicted session to start over")
	}
}

func TestNewRateLimiterValidation(t *testing.T) {
	if _, err := NewRateLimiter(Limits{RequestsPerMinute: 0, MaxSessions: 1}); err == nil {
		t.Error("Expected error for zero rate")
	}
	if _, err := NewRateLimiter(Limits{RequestsPerMinute: 1, MaxSessions: 0}); err == nil {
		t.Error("Expected error for zero session capacity")
	}
}
