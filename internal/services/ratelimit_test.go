package services

import (
	"testing"
	"time"

	"noous-backend/internal/models"
)

func TestDecideAllowsUpToMax(t *testing.T) {
	c := &models.RateLimitCounter{SubjectID: "u1", Action: "link_invite"}
	now := time.Now()

	for i := 0; i < 5; i++ {
		allowed, _ := decide(c, now.Add(time.Duration(i)*time.Minute), 5, time.Hour)
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	// The 6th attempt inside the window is rejected and starts the cooldown.
	allowed, retryAfter := decide(c, now.Add(5*time.Minute), 5, time.Hour)
	if allowed {
		t.Fatal("6th attempt should be rejected")
	}
	if retryAfter != blockCooldown {
		t.Fatalf("expected retry after %v, got %v", blockCooldown, retryAfter)
	}
	if c.BlockedUntil == nil {
		t.Fatal("expected blocked_until to be set")
	}
}

func TestDecideWindowExpiry(t *testing.T) {
	c := &models.RateLimitCounter{SubjectID: "u1", Action: "link_invite"}
	now := time.Now()

	for i := 0; i < 5; i++ {
		decide(c, now, 5, time.Hour)
	}

	// More than a window later the old attempts no longer count.
	allowed, _ := decide(c, now.Add(61*time.Minute), 5, time.Hour)
	if !allowed {
		t.Fatal("attempt after the window elapsed should be allowed")
	}
}

func TestDecideBlockedRejectsWithoutConsuming(t *testing.T) {
	c := &models.RateLimitCounter{SubjectID: "u1", Action: "link_invite"}
	now := time.Now()

	for i := 0; i < 6; i++ {
		decide(c, now, 5, time.Hour)
	}
	attempts := len(c.Attempts)

	allowed, retryAfter := decide(c, now.Add(time.Minute), 5, time.Hour)
	if allowed {
		t.Fatal("attempt during cooldown should be rejected")
	}
	if len(c.Attempts) != attempts {
		t.Fatal("blocked attempt must not consume an attempt slot")
	}
	if want := blockCooldown - time.Minute; retryAfter != want {
		t.Fatalf("expected retry after %v, got %v", want, retryAfter)
	}
}

func TestDecideCooldownExpiryResetsCounter(t *testing.T) {
	c := &models.RateLimitCounter{SubjectID: "u1", Action: "link_invite"}
	now := time.Now()

	for i := 0; i < 6; i++ {
		decide(c, now, 5, time.Hour)
	}

	// Past the cooldown the block lifts and the history resets, even though
	// the original attempts are still inside the hour window.
	after := now.Add(blockCooldown + time.Second)
	allowed, _ := decide(c, after, 5, time.Hour)
	if !allowed {
		t.Fatal("attempt after cooldown should be allowed")
	}
	if c.BlockedUntil != nil {
		t.Fatal("expected block to be cleared")
	}
	if len(c.Attempts) != 1 {
		t.Fatalf("expected counter reset to 1 attempt, got %d", len(c.Attempts))
	}
}

func TestRateLimitErrorRoundsUp(t *testing.T) {
	tests := []struct {
		retryAfter time.Duration
		minutes    int
	}{
		{30 * time.Second, 1},
		{time.Minute, 1},
		{61 * time.Second, 2},
		{14*time.Minute + 59*time.Second, 15},
	}
	for _, tt := range tests {
		e := &RateLimitError{RetryAfter: tt.retryAfter}
		if got := e.RetryAfterMinutes(); got != tt.minutes {
			t.Errorf("retryAfter %v: expected %d minutes, got %d", tt.retryAfter, tt.minutes, got)
		}
	}

	if msg := (&RateLimitError{RetryAfter: 45 * time.Second}).Error(); msg != "too many attempts, try again in 1 minute" {
		t.Errorf("unexpected singular message: %q", msg)
	}
	if msg := (&RateLimitError{RetryAfter: 10 * time.Minute}).Error(); msg != "too many attempts, try again in 10 minutes" {
		t.Errorf("unexpected plural message: %q", msg)
	}
}
