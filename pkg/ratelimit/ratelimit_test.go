package ratelimit

import (
	"testing"
	"time"
)

func TestAllowUpToLimit(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.Allow("u1", now) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("u1", now) {
		t.Fatal("attempt over the limit should be rejected")
	}
}

func TestWindowSlides(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Now()

	l.Allow("u1", now)
	l.Allow("u1", now)
	if l.Allow("u1", now.Add(30*time.Second)) {
		t.Fatal("expected rejection inside the window")
	}
	if !l.Allow("u1", now.Add(61*time.Second)) {
		t.Fatal("expected success after the window slid past the old attempts")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Now()

	if !l.Allow("u1", now) {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow("u2", now) {
		t.Fatal("second key should not be affected by the first")
	}
}

func TestSweepDropsStaleKeys(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Now()

	l.Allow("u1", now)
	l.Sweep(now.Add(2 * time.Minute))

	if _, ok := l.events["u1"]; ok {
		t.Fatal("expected stale key to be swept")
	}
}
