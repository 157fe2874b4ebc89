package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/internal/dto"
	"github.com/vibelink/hangout-service/internal/repository"
	"github.com/vibelink/hangout-service/pkg/database"
	"go.uber.org/zap"
)

// ActionAccept and ActionDecline are the two ways a creator may respond
// to a pending join request.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// hangoutService implements the post/request/participant state machine.
// Every multi-step transition runs inside one transaction, and capacity
// accounting always happens while holding a row lock on the post, so
// count(participants) <= max_participants holds under concurrent calls.
type hangoutService struct {
	db              *database.Postgres
	postRepo        repository.PostRepository
	requestRepo     repository.RequestRepository
	participantRepo repository.ParticipantRepository
	reviewRepo      repository.ReviewRepository
	userRepo        repository.UserRepository
	feedCache       *FeedCache
	logger          *zap.Logger
}

// NewHangoutService creates a new hangout service
func NewHangoutService(
	db *database.Postgres,
	repos *repository.Repositories,
	feedCache *FeedCache,
	logger *zap.Logger,
) HangoutService {
	return &hangoutService{
		db:              db,
		postRepo:        repos.Post,
		requestRepo:     repos.Request,
		participantRepo: repos.Participant,
		reviewRepo:      repos.Review,
		userRepo:        repos.User,
		feedCache:       feedCache,
		logger:          logger,
	}
}

// CreatePost inserts a post with status open and its host participant
// in one transaction. Both persist or neither does.
func (s *hangoutService) CreatePost(ctx context.Context, creatorID string, req *dto.CreatePostRequest) (*domain.HangoutPost, error) {
	if !domain.ValidActivityType(req.ActivityType) {
		return nil, BadRequestError("invalid activity type")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := &domain.HangoutPost{
		CreatorID:         creatorID,
		Title:             req.Title,
		Description:       req.Description,
		ActivityType:      req.ActivityType,
		DatingPreferences: req.DatingPreferences,
		City:              req.City,
		VenueName:         req.VenueName,
		VenueAddress:      req.VenueAddress,
		ScheduledAt:       req.ScheduledAt,
		MaxParticipants:   req.MaxParticipants,
		Status:            domain.PostStatusOpen,
		IsPublic:          isPublic,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.postRepo.CreateTx(ctx, tx, post); err != nil {
			return err
		}

		host := &domain.HangoutParticipant{
			PostID: post.ID,
			UserID: creatorID,
			Role:   domain.RoleHost,
		}
		return s.participantRepo.CreateTx(ctx, tx, host)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.feedCache.Invalidate(ctx, post.City)

	return post, nil
}

// GetFeed returns open, upcoming posts for a city, soonest first.
// Results are served from the Redis cache when fresh.
func (s *hangoutService) GetFeed(ctx context.Context, q dto.FeedQuery) ([]*domain.HangoutPost, error) {
	if posts, ok := s.feedCache.Get(ctx, q); ok {
		return posts, nil
	}

	offset := (q.Page - 1) * q.PageSize
	posts, err := s.postRepo.ListFeed(ctx, q.City, q.ActivityType, offset, q.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	s.feedCache.Set(ctx, q, posts)

	return posts, nil
}

// GetPost returns a post with its creator and participants resolved.
func (s *hangoutService) GetPost(ctx context.Context, id string) (*domain.HangoutPost, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	creator, err := s.userRepo.GetByID(ctx, post.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post creator: %w", err)
	}
	post.Creator = creator

	participants, err := s.participantRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post participants: %w", err)
	}
	post.Participants = participants

	return post, nil
}

// UpdatePost applies only explicitly provided fields. Lowering
// max_participants below the current participant count is rejected, and
// that check runs under the post row lock.
func (s *hangoutService) UpdatePost(ctx context.Context, id, actingUserID string, req *dto.UpdatePostRequest) (*domain.HangoutPost, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if post.CreatorID != actingUserID {
		return nil, ForbiddenError("not authorized to edit this post")
	}

	if err := applyPostUpdate(post, req); err != nil {
		return nil, err
	}

	if req.MaxParticipants.Present {
		err = s.withTx(ctx, func(tx *sql.Tx) error {
			locked, err := s.postRepo.GetByIDForUpdateTx(ctx, tx, id)
			if err != nil {
				return err
			}

			count, err := s.participantRepo.CountByPostTx(ctx, tx, id)
			if err != nil {
				return err
			}
			if post.MaxParticipants < count {
				return BadRequestError(fmt.Sprintf("max_participants cannot be below current participant count (%d)", count))
			}

			post.Status = locked.Status
			return s.postRepo.UpdateTx(ctx, tx, post)
		})
	} else {
		err = s.postRepo.Update(ctx, post)
	}
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.feedCache.Invalidate(ctx, post.City)

	return post, nil
}

// applyPostUpdate copies the provided fields onto the post. Required
// attributes reject explicit nulls.
func applyPostUpdate(post *domain.HangoutPost, req *dto.UpdatePostRequest) error {
	if req.Title.Present {
		if req.Title.Null || req.Title.Value == "" {
			return BadRequestError("title cannot be empty")
		}
		post.Title = req.Title.Value
	}
	if req.Description.Present {
		post.Description = req.Description.Ptr()
	}
	if req.DatingPreferences.Present {
		post.DatingPreferences = req.DatingPreferences.Ptr()
	}
	if req.VenueName.Present {
		post.VenueName = req.VenueName.Ptr()
	}
	if req.VenueAddress.Present {
		post.VenueAddress = req.VenueAddress.Ptr()
	}
	if req.ScheduledAt.Present {
		if req.ScheduledAt.Null {
			return BadRequestError("scheduled_at cannot be null")
		}
		post.ScheduledAt = req.ScheduledAt.Value
	}
	if req.MaxParticipants.Present {
		if req.MaxParticipants.Null || req.MaxParticipants.Value < 1 {
			return BadRequestError("max_participants must be at least 1")
		}
		post.MaxParticipants = req.MaxParticipants.Value
	}
	if req.IsPublic.Present {
		if req.IsPublic.Null {
			return BadRequestError("is_public cannot be null")
		}
		post.IsPublic = req.IsPublic.Value
	}
	return nil
}

// CancelPost transitions an open post to cancelled. Terminal states are
// rejected rather than silently overwritten.
func (s *hangoutService) CancelPost(ctx context.Context, id, actingUserID string) (*domain.HangoutPost, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if post.CreatorID != actingUserID {
		return nil, ForbiddenError("not authorized to cancel this post")
	}

	if post.Status != domain.PostStatusOpen && post.Status != domain.PostStatusClosed {
		return nil, BadRequestError(fmt.Sprintf("cannot cancel a %s post", post.Status))
	}

	if err := s.postRepo.UpdateStatus(ctx, id, domain.PostStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel post: %w", err)
	}
	post.Status = domain.PostStatusCancelled

	s.feedCache.Invalidate(ctx, post.City)

	return post, nil
}

// SendRequest inserts a pending join request. All preconditions are
// evaluated under the post row lock so the capacity check and the
// uniqueness check cannot race a concurrent acceptance or request.
func (s *hangoutService) SendRequest(ctx context.Context, postID, requesterID string, message *string) (*domain.HangoutRequest, error) {
	req := &domain.HangoutRequest{
		PostID:      postID,
		RequesterID: requesterID,
		Message:     message,
		Status:      domain.RequestStatusPending,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		post, err := s.postRepo.GetByIDForUpdateTx(ctx, tx, postID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return BadRequestError("post is not available")
			}
			return err
		}

		if post.Status != domain.PostStatusOpen {
			return BadRequestError("post is not available")
		}

		if post.CreatorID == requesterID {
			return BadRequestError("cannot request your own post")
		}

		hasActive, err := s.requestRepo.HasActiveTx(ctx, tx, postID, requesterID)
		if err != nil {
			return err
		}
		if hasActive {
			return ConflictError("already requested")
		}

		count, err := s.participantRepo.CountByPostTx(ctx, tx, postID)
		if err != nil {
			return err
		}
		if count >= post.MaxParticipants {
			return BadRequestError("post is full")
		}

		if err := s.requestRepo.CreateTx(ctx, tx, req); err != nil {
			if errors.Is(err, repository.ErrDuplicateRequest) {
				return ConflictError("already requested")
			}
			return err
		}

		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return req, nil
}

// RespondToRequest accepts or declines a pending join request. On
// accept the capacity is re-checked under the post row lock, the
// participant insert and the possible transition to closed commit in
// the same transaction as the request update.
func (s *hangoutService) RespondToRequest(ctx context.Context, requestID, actingUserID, action string) (*domain.HangoutRequest, error) {
	if action != ActionAccept && action != ActionDecline {
		return nil, BadRequestError("action must be accept or decline")
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("request not found")
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	owned, err := s.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if owned.CreatorID != actingUserID {
		return nil, ForbiddenError("not authorized to respond to this request")
	}

	if req.Status != domain.RequestStatusPending {
		return nil, BadRequestError("request already processed")
	}

	now := time.Now()
	var closedCity string

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		post, err := s.postRepo.GetByIDForUpdateTx(ctx, tx, req.PostID)
		if err != nil {
			return err
		}

		if action == ActionDecline {
			changed, err := s.requestRepo.TransitionTx(ctx, tx, req.ID,
				domain.RequestStatusPending, domain.RequestStatusDeclined, &now)
			if err != nil {
				return err
			}
			if !changed {
				return BadRequestError("request already processed")
			}
			req.Status = domain.RequestStatusDeclined
			req.RespondedAt = &now
			return nil
		}

		count, err := s.participantRepo.CountByPostTx(ctx, tx, post.ID)
		if err != nil {
			return err
		}
		if count >= post.MaxParticipants {
			return BadRequestError("post is full")
		}

		changed, err := s.requestRepo.TransitionTx(ctx, tx, req.ID,
			domain.RequestStatusPending, domain.RequestStatusAccepted, &now)
		if err != nil {
			return err
		}
		if !changed {
			return BadRequestError("request already processed")
		}

		participant := &domain.HangoutParticipant{
			PostID: post.ID,
			UserID: req.RequesterID,
			Role:   domain.RoleParticipant,
		}
		if err := s.participantRepo.CreateTx(ctx, tx, participant); err != nil {
			return err
		}

		// Accepting into the last slot closes the post to further requests.
		if count+1 >= post.MaxParticipants {
			if err := s.postRepo.UpdateStatusTx(ctx, tx, post.ID, domain.PostStatusClosed); err != nil {
				return err
			}
			closedCity = post.City
		}

		req.Status = domain.RequestStatusAccepted
		req.RespondedAt = &now
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, fmt.Errorf("failed to respond to request: %w", err)
	}

	if closedCity != "" {
		s.feedCache.Invalidate(ctx, closedCity)
	}

	return req, nil
}

// CancelRequest transitions a pending request to cancelled. Only the
// original requester may cancel; terminal states are rejected.
func (s *hangoutService) CancelRequest(ctx context.Context, requestID, actingUserID string) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("request not found")
		}
		return fmt.Errorf("failed to get request: %w", err)
	}

	if req.RequesterID != actingUserID {
		return ForbiddenError("not authorized to cancel this request")
	}

	changed, err := s.requestRepo.Transition(ctx, requestID,
		domain.RequestStatusPending, domain.RequestStatusCancelled, nil)
	if err != nil {
		return fmt.Errorf("failed to cancel request: %w", err)
	}
	if !changed {
		return BadRequestError("request already processed")
	}

	return nil
}

// ListPostRequests returns a post's join requests to its creator.
func (s *hangoutService) ListPostRequests(ctx context.Context, postID, actingUserID string) ([]*domain.HangoutRequest, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if post.CreatorID != actingUserID {
		return nil, ForbiddenError("not authorized to view requests for this post")
	}

	reqs, err := s.requestRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return reqs, nil
}

// ListMyPosts returns the user's posts, newest first.
func (s *hangoutService) ListMyPosts(ctx context.Context, userID string) ([]*domain.HangoutPost, error) {
	posts, err := s.postRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListMyRequests returns the user's join requests, newest first.
func (s *hangoutService) ListMyRequests(ctx context.Context, userID string) ([]*domain.HangoutRequest, error) {
	reqs, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}

// CreateReview records a rating between two participants of a
// completed hangout.
func (s *hangoutService) CreateReview(ctx context.Context, postID, reviewerID string, req *dto.CreateReviewRequest) (*domain.Review, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if post.Status != domain.PostStatusCompleted {
		return nil, BadRequestError("hangout is not completed")
	}

	if reviewerID == req.RevieweeID {
		return nil, BadRequestError("cannot review yourself")
	}

	isParticipant, err := s.participantRepo.Exists(ctx, postID, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check reviewer: %w", err)
	}
	if !isParticipant {
		return nil, ForbiddenError("only participants can leave reviews")
	}

	revieweePresent, err := s.participantRepo.Exists(ctx, postID, req.RevieweeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check reviewee: %w", err)
	}
	if !revieweePresent {
		return nil, BadRequestError("reviewee did not participate in this hangout")
	}

	review := &domain.Review{
		HangoutID:  postID,
		ReviewerID: reviewerID,
		RevieweeID: req.RevieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ConflictError("review already submitted")
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return review, nil
}

// ListUserReviews returns reviews received by a user, newest first.
func (s *hangoutService) ListUserReviews(ctx context.Context, userID string) ([]*domain.Review, error) {
	reviews, err := s.reviewRepo.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *hangoutService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
