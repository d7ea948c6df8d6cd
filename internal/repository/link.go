package repository

import (
	"context"
	"fmt"

	"noous-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LinkRepository handles database operations for relationship links
type LinkRepository struct {
	db *pgxpool.Pool
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

// GetByOwner retrieves all links owned by a user
func (r *LinkRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Link, error) {
	query := `
		SELECT id, owner_id, partner_id, partner_name, relationship, nickname, created_at
		FROM links
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		var link models.Link
		err := rows.Scan(
			&link.ID, &link.OwnerID, &link.PartnerID, &link.PartnerName,
			&link.Relationship, &link.Nickname, &link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Exists checks whether a link between two users already exists
func (r *LinkRepository) Exists(ctx context.Context, ownerID, partnerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE owner_id = $1 AND partner_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, ownerID, partnerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check link existence: %w", err)
	}
	return exists, nil
}

// CreateMutual inserts both mirror rows of a link and flips the pending
// invitation to accepted, all in one transaction. Either every write lands
// or none does, so a one-sided link is never observable.
func (r *LinkRepository) CreateMutual(ctx context.Context, a, b *models.Link, notificationID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO links (id, owner_id, partner_id, partner_name, relationship, nickname, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, link := range []*models.Link{a, b} {
		_, err := tx.Exec(ctx, insert,
			link.ID, link.OwnerID, link.PartnerID, link.PartnerName,
			link.Relationship, link.Nickname, link.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create link: %w", err)
		}
	}

	result, err := tx.Exec(ctx,
		`UPDATE notifications SET status = $1, read = true WHERE id = $2 AND status = $3`,
		models.StatusAccepted, notificationID, models.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("invitation is no longer pending")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit link creation: %w", err)
	}
	return nil
}

// DeleteMutual removes both sides of a link in one transaction
func (r *LinkRepository) DeleteMutual(ctx context.Context, userID, partnerID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`DELETE FROM links WHERE (owner_id = $1 AND partner_id = $2) OR (owner_id = $2 AND partner_id = $1)`,
		userID, partnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("link not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit link deletion: %w", err)
	}
	return nil
}

// Get retrieves the link a user owns toward a partner
func (r *LinkRepository) Get(ctx context.Context, ownerID, partnerID string) (*models.Link, error) {
	query := `
		SELECT id, owner_id, partner_id, partner_name, relationship, nickname, created_at
		FROM links
		WHERE owner_id = $1 AND partner_id = $2
	`
	var link models.Link
	err := r.db.QueryRow(ctx, query, ownerID, partnerID).Scan(
		&link.ID, &link.OwnerID, &link.PartnerID, &link.PartnerName,
		&link.Relationship, &link.Nickname, &link.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("link not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}
