package services

import (
	"context"
	"fmt"
	"time"

	"noous-backend/internal/models"
	"noous-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// blockCooldown is the fixed lockout applied once a subject exceeds the
// attempt threshold. It is independent of the counting window.
const blockCooldown = 15 * time.Minute

// RateLimitError is returned when a subject exceeds the attempt threshold.
// It is distinguishable from validation and auth failures and carries a
// human-readable retry-after estimate.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	m := e.RetryAfterMinutes()
	if m == 1 {
		return "too many attempts, try again in 1 minute"
	}
	return fmt.Sprintf("too many attempts, try again in %d minutes", m)
}

// RetryAfterMinutes reports the remaining block time rounded up to the
// nearest minute, never less than 1.
func (e *RateLimitError) RetryAfterMinutes() int {
	m := int((e.RetryAfter + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}

// RateLimiter is the authoritative database-backed sliding-window limiter.
// Its read-modify-write cycle is last-write-wins; the cheap in-memory
// pre-check in pkg/ratelimit fronts it for UX and the two never share state.
type RateLimiter struct {
	repo        *repository.RateLimitRepository
	maxAttempts int
	window      time.Duration
}

// NewRateLimiter creates a new rate limiter service
func NewRateLimiter(repo *repository.RateLimitRepository, maxAttempts int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		repo:        repo,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Check records an attempt for (subjectID, action) and rejects it with a
// RateLimitError once the subject exceeds the threshold inside the window.
// While blocked, calls are rejected without consuming an attempt slot.
func (l *RateLimiter) Check(ctx context.Context, subjectID, action string) error {
	now := time.Now()

	counter, err := l.repo.Get(ctx, subjectID, action)
	if err != nil {
		return fmt.Errorf("failed to load rate limit counter: %w", err)
	}
	if counter == nil {
		counter = &models.RateLimitCounter{SubjectID: subjectID, Action: action}
	}

	allowed, retryAfter := decide(counter, now, l.maxAttempts, l.window)

	if err := l.repo.Put(ctx, counter); err != nil {
		return fmt.Errorf("failed to store rate limit counter: %w", err)
	}

	if !allowed {
		log.Warn().
			Str("subject_id", subjectID).
			Str("action", action).
			Dur("retry_after", retryAfter).
			Msg("Rate limit exceeded")
		return &RateLimitError{RetryAfter: retryAfter}
	}
	return nil
}

// SweepStale deletes counters untouched for the retention period
func (l *RateLimiter) SweepStale(ctx context.Context, retention time.Duration) error {
	n, err := l.repo.DeleteStale(ctx, time.Now().Add(-retention))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int64("removed", n).Msg("Swept stale rate limit counters")
	}
	return nil
}

// decide advances the counter state machine for one attempt at "now" and
// reports whether the attempt is permitted. The counter is mutated in place;
// the caller persists it.
//
// Open -> Blocked: fires when the attempt would push the in-window count
// past maxAttempts; the triggering attempt is rejected and the cooldown set.
// Blocked -> Open: automatic once the cooldown passes; the attempt history
// is reset at that point.
func decide(c *models.RateLimitCounter, now time.Time, maxAttempts int, window time.Duration) (bool, time.Duration) {
	c.UpdatedAt = now

	if c.BlockedUntil != nil {
		if now.Before(*c.BlockedUntil) {
			return false, c.BlockedUntil.Sub(now)
		}
		c.BlockedUntil = nil
		c.Attempts = nil
	}

	cut := now.Add(-window)
	kept := c.Attempts[:0]
	for _, t := range c.Attempts {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}
	c.Attempts = kept

	if len(c.Attempts) >= maxAttempts {
		blockedUntil := now.Add(blockCooldown)
		c.BlockedUntil = &blockedUntil
		return false, blockCooldown
	}

	c.Attempts = append(c.Attempts, now)
	return true, 0
}
