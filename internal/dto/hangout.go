package dto

import (
	"time"

	"github.com/vibelink/hangout-service/internal/domain"
)

// CreatePostRequest represents a new hangout post
type CreatePostRequest struct {
	Title             string              `json:"title" binding:"required,max=200"`
	Description       *string             `json:"description"`
	ActivityType      domain.ActivityType `json:"activity_type" binding:"required"`
	DatingPreferences *string             `json:"dating_preferences"`
	City              string              `json:"city" binding:"required,max=100"`
	VenueName         *string             `json:"venue_name" binding:"omitempty,max=200"`
	VenueAddress      *string             `json:"venue_address"`
	ScheduledAt       time.Time           `json:"scheduled_at" binding:"required"`
	MaxParticipants   int                 `json:"max_participants" binding:"required,min=1"`
	IsPublic          *bool               `json:"is_public"`
}

// UpdatePostRequest is a partial post update. Only explicitly provided
// fields are applied.
type UpdatePostRequest struct {
	Title             Optional[string]    `json:"title"`
	Description       Optional[string]    `json:"description"`
	DatingPreferences Optional[string]    `json:"dating_preferences"`
	VenueName         Optional[string]    `json:"venue_name"`
	VenueAddress      Optional[string]    `json:"venue_address"`
	ScheduledAt       Optional[time.Time] `json:"scheduled_at"`
	MaxParticipants   Optional[int]       `json:"max_participants"`
	IsPublic          Optional[bool]      `json:"is_public"`
}

// SendRequestRequest carries an optional introduction message with a
// join request.
type SendRequestRequest struct {
	Message *string `json:"message" binding:"omitempty,max=500"`
}

// RespondRequestRequest selects what to do with a pending join request.
type RespondRequestRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

// CreateReviewRequest rates another participant of a completed hangout.
type CreateReviewRequest struct {
	RevieweeID string  `json:"reviewee_id" binding:"required,uuid"`
	Rating     int     `json:"rating" binding:"required,min=1,max=5"`
	Comment    *string `json:"comment" binding:"omitempty,max=1000"`
}

// ParticipantResponse represents a confirmed member of a post
type ParticipantResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// PostResponse represents a hangout post in responses
type PostResponse struct {
	ID                string                `json:"id"`
	CreatorID         string                `json:"creator_id"`
	Title             string                `json:"title"`
	Description       *string               `json:"description"`
	ActivityType      string                `json:"activity_type"`
	DatingPreferences *string               `json:"dating_preferences,omitempty"`
	City              string                `json:"city"`
	VenueName         *string               `json:"venue_name"`
	VenueAddress      *string               `json:"venue_address"`
	ScheduledAt       string                `json:"scheduled_at"`
	MaxParticipants   int                   `json:"max_participants"`
	Status            string                `json:"status"`
	IsPublic          bool                  `json:"is_public"`
	CreatedAt         string                `json:"created_at"`
	Creator           *UserResponse         `json:"creator,omitempty"`
	Participants      []ParticipantResponse `json:"participants,omitempty"`
}

// RequestResponse represents a join request in responses
type RequestResponse struct {
	ID          string  `json:"id"`
	PostID      string  `json:"post_id"`
	RequesterID string  `json:"requester_id"`
	Message     *string `json:"message"`
	Status      string  `json:"status"`
	RespondedAt *string `json:"responded_at"`
	CreatedAt   string  `json:"created_at"`
}

// ReviewResponse represents a review in responses
type ReviewResponse struct {
	ID         string  `json:"id"`
	HangoutID  string  `json:"hangout_id"`
	ReviewerID string  `json:"reviewer_id"`
	RevieweeID string  `json:"reviewee_id"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment"`
	CreatedAt  string  `json:"created_at"`
}

// FeedQuery holds the validated feed filters and pagination.
type FeedQuery struct {
	City         string
	ActivityType *domain.ActivityType
	Page         int
	PageSize     int
}

// NewPostResponse converts a domain post into its response shape.
func NewPostResponse(p *domain.HangoutPost) PostResponse {
	resp := PostResponse{
		ID:                p.ID,
		CreatorID:         p.CreatorID,
		Title:             p.Title,
		Description:       p.Description,
		ActivityType:      string(p.ActivityType),
		DatingPreferences: p.DatingPreferences,
		City:              p.City,
		VenueName:         p.VenueName,
		VenueAddress:      p.VenueAddress,
		ScheduledAt:       p.ScheduledAt.Format(time.RFC3339),
		MaxParticipants:   p.MaxParticipants,
		Status:            string(p.Status),
		IsPublic:          p.IsPublic,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}

	if p.Creator != nil {
		creator := NewUserResponse(p.Creator)
		resp.Creator = &creator
	}

	for _, part := range p.Participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			ID:       part.ID,
			UserID:   part.UserID,
			Role:     string(part.Role),
			JoinedAt: part.JoinedAt.Format(time.RFC3339),
		})
	}

	return resp
}

// NewRequestResponse converts a domain join request into its response shape.
func NewRequestResponse(r *domain.HangoutRequest) RequestResponse {
	resp := RequestResponse{
		ID:          r.ID,
		PostID:      r.PostID,
		RequesterID: r.RequesterID,
		Message:     r.Message,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}

	if r.RespondedAt != nil {
		s := r.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &s
	}

	return resp
}

// NewUserResponse converts a domain user into its response shape.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Bio:        u.Bio,
		AvatarURL:  u.AvatarURL,
		City:       u.City,
		Interests:  u.Interests,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

// NewReviewResponse converts a domain review into its response shape.
func NewReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		HangoutID:  r.HangoutID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}
