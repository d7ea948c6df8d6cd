package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"noous-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxFeedSize caps how many surprises a recipient's feed query returns
const maxFeedSize = 100

// SurpriseRepository handles database operations for surprises
type SurpriseRepository struct {
	db *pgxpool.Pool
}

// NewSurpriseRepository creates a new surprise repository
func NewSurpriseRepository(db *pgxpool.Pool) *SurpriseRepository {
	return &SurpriseRepository{db: db}
}

// Create creates a new surprise
func (r *SurpriseRepository) Create(ctx context.Context, s *models.Surprise) error {
	reactions, err := json.Marshal(s.Reactions)
	if err != nil {
		return fmt.Errorf("failed to marshal reactions: %w", err)
	}
	if s.Reactions == nil {
		reactions = []byte("[]")
	}

	query := `
		INSERT INTO surprises (id, sender_id, recipient_id, type, title, content, sender_name, is_private, viewed, reactions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.Exec(ctx, query,
		s.ID, s.SenderID, s.RecipientID, s.Type, s.Title, s.Content,
		s.SenderName, s.IsPrivate, s.Viewed, reactions, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create surprise: %w", err)
	}
	return nil
}

// GetByID retrieves a surprise by ID
func (r *SurpriseRepository) GetByID(ctx context.Context, id string) (*models.Surprise, error) {
	query := `
		SELECT id, sender_id, recipient_id, type, title, content, sender_name, is_private, viewed, reactions, created_at
		FROM surprises
		WHERE id = $1
	`
	s, err := scanSurprise(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("surprise not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get surprise: %w", err)
	}
	return s, nil
}

// GetByRecipient retrieves a recipient's surprises, newest first, capped at
// the feed size.
func (r *SurpriseRepository) GetByRecipient(ctx context.Context, recipientID string) ([]models.Surprise, error) {
	query := `
		SELECT id, sender_id, recipient_id, type, title, content, sender_name, is_private, viewed, reactions, created_at
		FROM surprises
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, recipientID, maxFeedSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get surprises: %w", err)
	}
	defer rows.Close()

	var surprises []models.Surprise
	for rows.Next() {
		s, err := scanSurprise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan surprise: %w", err)
		}
		surprises = append(surprises, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating surprises: %w", err)
	}

	return surprises, nil
}

// MarkViewed marks a surprise as revealed by its recipient
func (r *SurpriseRepository) MarkViewed(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `UPDATE surprises SET viewed = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark surprise viewed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("surprise not found")
	}
	return nil
}

// AddReaction appends a reaction to a surprise. The append happens in SQL so
// concurrent reactions never overwrite each other.
func (r *SurpriseRepository) AddReaction(ctx context.Context, id string, reaction models.Reaction) error {
	data, err := json.Marshal(reaction)
	if err != nil {
		return fmt.Errorf("failed to marshal reaction: %w", err)
	}

	result, err := r.db.Exec(ctx,
		`UPDATE surprises SET reactions = reactions || $1::jsonb WHERE id = $2`,
		data, id,
	)
	if err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("surprise not found")
	}
	return nil
}

// Delete removes a surprise permanently
func (r *SurpriseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM surprises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete surprise: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("surprise not found")
	}
	return nil
}

func scanSurprise(row pgx.Row) (*models.Surprise, error) {
	var s models.Surprise
	var reactions []byte
	err := row.Scan(
		&s.ID, &s.SenderID, &s.RecipientID, &s.Type, &s.Title, &s.Content,
		&s.SenderName, &s.IsPrivate, &s.Viewed, &reactions, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(reactions) > 0 {
		if err := json.Unmarshal(reactions, &s.Reactions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reactions: %w", err)
		}
	}
	return &s, nil
}
