package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/pkg/database"
)

// participantRepository implements ParticipantRepository interface
type participantRepository struct {
	db *database.Postgres
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *database.Postgres) ParticipantRepository {
	return &participantRepository{db: db}
}

// CreateTx inserts a participant within a caller-owned transaction. The
// caller must hold the post row lock so the capacity invariant survives
// concurrent acceptances.
func (r *participantRepository) CreateTx(ctx context.Context, tx *sql.Tx, participant *domain.HangoutParticipant) error {
	query := `
		INSERT INTO hangout_participants (id, post_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now()
	}

	_, err := tx.ExecContext(ctx, query,
		participant.ID,
		participant.PostID,
		participant.UserID,
		participant.Role,
		participant.JoinedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("participant already exists: %w", ErrDuplicateParticipant)
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}

	return nil
}

// CountByPostTx counts a post's participants inside the caller's
// transaction, under the post row lock.
func (r *participantRepository) CountByPostTx(ctx context.Context, tx *sql.Tx, postID string) (int, error) {
	query := `SELECT COUNT(*) FROM hangout_participants WHERE post_id = $1`

	var count int
	if err := tx.QueryRowContext(ctx, query, postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}

	return count, nil
}

// ListByPost returns a post's participants, host first then join order.
func (r *participantRepository) ListByPost(ctx context.Context, postID string) ([]*domain.HangoutParticipant, error) {
	query := `
		SELECT id, post_id, user_id, role, joined_at
		FROM hangout_participants
		WHERE post_id = $1
		ORDER BY role = 'host' DESC, joined_at ASC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*domain.HangoutParticipant
	for rows.Next() {
		p := &domain.HangoutParticipant{}
		err := rows.Scan(&p.ID, &p.PostID, &p.UserID, &p.Role, &p.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// Exists reports whether the user is a participant of the post.
func (r *participantRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM hangout_participants WHERE post_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, postID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}

	return exists, nil
}
