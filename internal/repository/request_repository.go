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

const requestColumns = `id, post_id, requester_id, message, status, responded_at, created_at`

// requestRepository implements RequestRepository interface
type requestRepository struct {
	db *database.Postgres
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *database.Postgres) RequestRepository {
	return &requestRepository{db: db}
}

// CreateTx inserts a pending join request within a caller-owned
// transaction. A partial unique index on (post_id, requester_id) for
// non-cancelled rows backs up the application-level uniqueness check.
func (r *requestRepository) CreateTx(ctx context.Context, tx *sql.Tx, req *domain.HangoutRequest) error {
	query := `
		INSERT INTO hangout_requests (id, post_id, requester_id, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = domain.RequestStatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	_, err := tx.ExecContext(ctx, query,
		req.ID,
		req.PostID,
		req.RequesterID,
		req.Message,
		req.Status,
		req.CreatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("request already exists: %w", ErrDuplicateRequest)
		}
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a join request by ID
func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.HangoutRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM hangout_requests WHERE id = $1`

	req, err := scanRequest(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("request with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get request by id: %w", err)
	}

	return req, nil
}

// HasActiveTx reports whether a non-cancelled request already exists for
// the (post, requester) pair. Runs inside the caller's transaction so
// the result is stable while the post row lock is held.
func (r *requestRepository) HasActiveTx(ctx context.Context, tx *sql.Tx, postID, requesterID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM hangout_requests
			WHERE post_id = $1 AND requester_id = $2 AND status <> $3
		)
	`

	var exists bool
	err := tx.QueryRowContext(ctx, query, postID, requesterID, domain.RequestStatusCancelled).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing request: %w", err)
	}

	return exists, nil
}

// ListByPost returns all requests for a post, newest first.
func (r *requestRepository) ListByPost(ctx context.Context, postID string) ([]*domain.HangoutRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM hangout_requests
		WHERE post_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, postID)
}

// ListByRequester returns a user's requests, newest first.
func (r *requestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.HangoutRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM hangout_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, requesterID)
}

// Transition atomically moves a request from one status to another.
// Returns false when the request is not in the expected status, which
// is how terminal states stay terminal under concurrent calls.
func (r *requestRepository) Transition(ctx context.Context, id string, from, to domain.RequestStatus, respondedAt *time.Time) (bool, error) {
	return r.transition(ctx, r.db.DB, id, from, to, respondedAt)
}

// TransitionTx is Transition within a caller-owned transaction.
func (r *requestRepository) TransitionTx(ctx context.Context, tx *sql.Tx, id string, from, to domain.RequestStatus, respondedAt *time.Time) (bool, error) {
	return r.transition(ctx, tx, id, from, to, respondedAt)
}

func (r *requestRepository) transition(ctx context.Context, db execer, id string, from, to domain.RequestStatus, respondedAt *time.Time) (bool, error) {
	query := `UPDATE hangout_requests SET status = $3, responded_at = $4 WHERE id = $1 AND status = $2`

	result, err := db.ExecContext(ctx, query, id, from, to, respondedAt)
	if err != nil {
		return false, fmt.Errorf("failed to transition request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *requestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.HangoutRequest, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var reqs []*domain.HangoutRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}

	return reqs, nil
}

func scanRequest(row rowScanner) (*domain.HangoutRequest, error) {
	req := &domain.HangoutRequest{}
	var respondedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.PostID,
		&req.RequesterID,
		&req.Message,
		&req.Status,
		&respondedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if respondedAt.Valid {
		req.RespondedAt = &respondedAt.Time
	}

	return req, nil
}
