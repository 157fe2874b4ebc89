package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibelink/hangout-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, userID string) error
}

// TokenRepository defines methods for refresh token operations. Tokens
// are revoked in place, never deleted, so the audit trail survives.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// PostRepository defines methods for hangout post operations. The Tx
// variants participate in a caller-owned transaction; GetByIDForUpdateTx
// takes a row-level lock that serializes capacity accounting.
type PostRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, post *domain.HangoutPost) error
	GetByID(ctx context.Context, id string) (*domain.HangoutPost, error)
	GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*domain.HangoutPost, error)
	ListFeed(ctx context.Context, city string, activity *domain.ActivityType, offset, limit int) ([]*domain.HangoutPost, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.HangoutPost, error)
	Update(ctx context.Context, post *domain.HangoutPost) error
	UpdateTx(ctx context.Context, tx *sql.Tx, post *domain.HangoutPost) error
	UpdateStatus(ctx context.Context, id string, status domain.PostStatus) error
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id string, status domain.PostStatus) error
}

// RequestRepository defines methods for join request operations
type RequestRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, req *domain.HangoutRequest) error
	GetByID(ctx context.Context, id string) (*domain.HangoutRequest, error)
	HasActiveTx(ctx context.Context, tx *sql.Tx, postID, requesterID string) (bool, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.HangoutRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.HangoutRequest, error)
	Transition(ctx context.Context, id string, from, to domain.RequestStatus, respondedAt *time.Time) (bool, error)
	TransitionTx(ctx context.Context, tx *sql.Tx, id string, from, to domain.RequestStatus, respondedAt *time.Time) (bool, error)
}

// ParticipantRepository defines methods for participant operations
type ParticipantRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, participant *domain.HangoutParticipant) error
	CountByPostTx(ctx context.Context, tx *sql.Tx, postID string) (int, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.HangoutParticipant, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
}

// ReviewRepository defines methods for review operations
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByReviewee(ctx context.Context, revieweeID string) ([]*domain.Review, error)
}
