package repository

import (
	"context"
	"fmt"
	"time"

	"noous-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RateLimitRepository persists per-(subject, action) attempt counters.
// Reads and writes are plain last-write-wins; near-simultaneous checks from
// the same subject may race, which the limiter tolerates.
type RateLimitRepository struct {
	db *pgxpool.Pool
}

// NewRateLimitRepository creates a new rate limit repository
func NewRateLimitRepository(db *pgxpool.Pool) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Get retrieves the counter for a (subject, action) key, or nil if none exists
func (r *RateLimitRepository) Get(ctx context.Context, subjectID, action string) (*models.RateLimitCounter, error) {
	query := `
		SELECT subject_id, action, attempts, blocked_until, updated_at
		FROM rate_limits
		WHERE subject_id = $1 AND action = $2
	`
	var c models.RateLimitCounter
	err := r.db.QueryRow(ctx, query, subjectID, action).Scan(
		&c.SubjectID, &c.Action, &c.Attempts, &c.BlockedUntil, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rate limit counter: %w", err)
	}
	return &c, nil
}

// Put upserts the counter for a (subject, action) key
func (r *RateLimitRepository) Put(ctx context.Context, c *models.RateLimitCounter) error {
	query := `
		INSERT INTO rate_limits (subject_id, action, attempts, blocked_until, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (subject_id, action)
		DO UPDATE SET attempts = $3, blocked_until = $4, updated_at = $5
	`
	_, err := r.db.Exec(ctx, query, c.SubjectID, c.Action, c.Attempts, c.BlockedUntil, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to store rate limit counter: %w", err)
	}
	return nil
}

// DeleteStale removes counters untouched since the cutoff
func (r *RateLimitRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM rate_limits WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale rate limit counters: %w", err)
	}
	return result.RowsAffected(), nil
}
