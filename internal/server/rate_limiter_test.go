package server

import (
	"testing"
	"time"
)

// TestRateLimiterBurst verifies that the limiter allows the configured
// burst and then throttles.
func TestRateLimiterBurst(t *testing.T) {
	rl := newRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.allow() {
			t.Fatalf("Expected message %d within burst to be allowed", i+1)
		}
	}
	if rl.allow() {
		t.Error("Expected message beyond burst to be throttled")
	}
}

// TestRateLimiterRefill verifies tokens return after the refill interval.
func TestRateLimiterRefill(t *testing.T) {
	rl := newRateLimiter(1, 20*time.Millisecond)

	if !rl.allow() {
		t.Fatal("Expected first message to be allowed")
	}
	if rl.allow() {
		t.Fatal("Expected second immediate message to be throttled")
	}

	time.Sleep(30 * time.Millisecond)

	if !rl.allow() {
		t.Error("Expected message after refill interval to be allowed")
	}
}

// TestRateLimiterSanitizesArguments verifies nonsensical construction
// arguments fall back to safe values.
func TestRateLimiterSanitizesArguments(t *testing.T) {
	rl := newRateLimiter(0, 0)

	if !rl.allow() {
		t.Error("Expected sanitized limiter to allow at least one message")
	}
}
