package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/pkg/database"
)

const postColumns = `id, creator_id, title, description, activity_type, dating_preferences,
		city, venue_name, venue_address, scheduled_at, max_participants, status,
		is_public, created_at`

// postRepository implements PostRepository interface
type postRepository struct {
	db *database.Postgres
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.Postgres) PostRepository {
	return &postRepository{db: db}
}

// CreateTx inserts a new post within a caller-owned transaction. The
// caller inserts the host participant in the same transaction so both
// persist or neither does.
func (r *postRepository) CreateTx(ctx context.Context, tx *sql.Tx, post *domain.HangoutPost) error {
	query := `
		INSERT INTO hangout_posts (id, creator_id, title, description, activity_type,
			dating_preferences, city, venue_name, venue_address, scheduled_at,
			max_participants, status, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Status == "" {
		post.Status = domain.PostStatusOpen
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	_, err := tx.ExecContext(ctx, query,
		post.ID,
		post.CreatorID,
		post.Title,
		post.Description,
		post.ActivityType,
		post.DatingPreferences,
		post.City,
		post.VenueName,
		post.VenueAddress,
		post.ScheduledAt,
		post.MaxParticipants,
		post.Status,
		post.IsPublic,
		post.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.HangoutPost, error) {
	query := `SELECT ` + postColumns + ` FROM hangout_posts WHERE id = $1`

	post, err := scanPost(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

// GetByIDForUpdateTx retrieves a post while taking a row-level lock.
// Capacity checks and the participant insert that follows must happen
// while the lock is held, otherwise two concurrent acceptances can both
// pass the count check.
func (r *postRepository) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*domain.HangoutPost, error) {
	query := `SELECT ` + postColumns + ` FROM hangout_posts WHERE id = $1 FOR UPDATE`

	post, err := scanPost(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock post by id: %w", err)
	}

	return post, nil
}

// ListFeed returns open, upcoming posts for a city ordered soonest first.
func (r *postRepository) ListFeed(ctx context.Context, city string, activity *domain.ActivityType, offset, limit int) ([]*domain.HangoutPost, error) {
	query := `SELECT ` + postColumns + `
		FROM hangout_posts
		WHERE city = $1 AND status = $2 AND scheduled_at >= NOW() AND is_public = TRUE
	`
	args := []interface{}{city, domain.PostStatusOpen}

	if activity != nil {
		query += fmt.Sprintf(" AND activity_type = $%d", len(args)+1)
		args = append(args, *activity)
	}

	query += fmt.Sprintf(" ORDER BY scheduled_at ASC OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	return r.list(ctx, query, args...)
}

// ListByCreator returns a user's posts, newest first.
func (r *postRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.HangoutPost, error) {
	query := `SELECT ` + postColumns + `
		FROM hangout_posts
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, creatorID)
}

// Update persists a post's mutable attributes
func (r *postRepository) Update(ctx context.Context, post *domain.HangoutPost) error {
	return r.update(ctx, r.db.DB, post)
}

// UpdateTx is Update within a caller-owned transaction, used when the
// post row lock must be held across the write.
func (r *postRepository) UpdateTx(ctx context.Context, tx *sql.Tx, post *domain.HangoutPost) error {
	return r.update(ctx, tx, post)
}

func (r *postRepository) update(ctx context.Context, db execer, post *domain.HangoutPost) error {
	query := `
		UPDATE hangout_posts
		SET title = $2, description = $3, dating_preferences = $4, venue_name = $5,
			venue_address = $6, scheduled_at = $7, max_participants = $8, is_public = $9
		WHERE id = $1
	`

	result, err := db.ExecContext(ctx, query,
		post.ID,
		post.Title,
		post.Description,
		post.DatingPreferences,
		post.VenueName,
		post.VenueAddress,
		post.ScheduledAt,
		post.MaxParticipants,
		post.IsPublic,
	)

	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post with id %s not found: %w", post.ID, ErrNotFound)
	}

	return nil
}

// UpdateStatus transitions a post's status outside a transaction
func (r *postRepository) UpdateStatus(ctx context.Context, id string, status domain.PostStatus) error {
	return r.updateStatus(ctx, r.db.DB, id, status)
}

// UpdateStatusTx transitions a post's status within a caller-owned transaction
func (r *postRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id string, status domain.PostStatus) error {
	return r.updateStatus(ctx, tx, id, status)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *postRepository) updateStatus(ctx context.Context, db execer, id string, status domain.PostStatus) error {
	query := `UPDATE hangout_posts SET status = $2 WHERE id = $1`

	result, err := db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post with id %s not found: %w", id, ErrNotFound)
	}

	return nil
}

func (r *postRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.HangoutPost, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.HangoutPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

func scanPost(row rowScanner) (*domain.HangoutPost, error) {
	post := &domain.HangoutPost{}

	err := row.Scan(
		&post.ID,
		&post.CreatorID,
		&post.Title,
		&post.Description,
		&post.ActivityType,
		&post.DatingPreferences,
		&post.City,
		&post.VenueName,
		&post.VenueAddress,
		&post.ScheduledAt,
		&post.MaxParticipants,
		&post.Status,
		&post.IsPublic,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return post, nil
}
