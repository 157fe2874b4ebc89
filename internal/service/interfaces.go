package service

import (
	"context"

	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/internal/dto"
)

// AuthService defines methods for identity operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
	ResolveBearer(ctx context.Context, accessToken string) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
}

// HangoutService defines the post/request/participant state machine
type HangoutService interface {
	CreatePost(ctx context.Context, creatorID string, req *dto.CreatePostRequest) (*domain.HangoutPost, error)
	GetFeed(ctx context.Context, q dto.FeedQuery) ([]*domain.HangoutPost, error)
	GetPost(ctx context.Context, id string) (*domain.HangoutPost, error)
	UpdatePost(ctx context.Context, id, actingUserID string, req *dto.UpdatePostRequest) (*domain.HangoutPost, error)
	CancelPost(ctx context.Context, id, actingUserID string) (*domain.HangoutPost, error)
	SendRequest(ctx context.Context, postID, requesterID string, message *string) (*domain.HangoutRequest, error)
	RespondToRequest(ctx context.Context, requestID, actingUserID, action string) (*domain.HangoutRequest, error)
	CancelRequest(ctx context.Context, requestID, actingUserID string) error
	ListPostRequests(ctx context.Context, postID, actingUserID string) ([]*domain.HangoutRequest, error)
	ListMyPosts(ctx context.Context, userID string) ([]*domain.HangoutPost, error)
	ListMyRequests(ctx context.Context, userID string) ([]*domain.HangoutRequest, error)
	CreateReview(ctx context.Context, postID, reviewerID string, req *dto.CreateReviewRequest) (*domain.Review, error)
	ListUserReviews(ctx context.Context, userID string) ([]*domain.Review, error)
}
