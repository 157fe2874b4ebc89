package domain

import "time"

// PostStatus is the lifecycle state of a hangout post. "open" is the
// initial state; the other three are terminal with respect to new join
// requests. "completed" is set by an external process, never by this
// service.
type PostStatus string

const (
	PostStatusOpen      PostStatus = "open"
	PostStatusClosed    PostStatus = "closed"
	PostStatusCancelled PostStatus = "cancelled"
	PostStatusCompleted PostStatus = "completed"
)

// RequestStatus is the lifecycle state of a join request. "pending" is
// initial; the other three are terminal.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusDeclined  RequestStatus = "declined"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// ParticipantRole distinguishes the post creator from accepted joiners.
// Every post has exactly one host, created in the same transaction as
// the post itself.
type ParticipantRole string

const (
	RoleHost        ParticipantRole = "host"
	RoleParticipant ParticipantRole = "participant"
)

// ActivityType is the closed enumeration of hangout categories.
type ActivityType string

const (
	ActivityDiningNightLife ActivityType = "Dining_NightLife"
	ActivityEntertainment   ActivityType = "Entertainment"
	ActivitySports          ActivityType = "Sports"
	ActivityArcadeAdventure ActivityType = "Arcade_Adventure"
	ActivityCasualWentOut   ActivityType = "Casual_WentOut"
	ActivityEvent           ActivityType = "Event"
	ActivityDating          ActivityType = "Dating"
)

// ValidActivityType reports whether v is a member of the activity enumeration.
func ValidActivityType(v ActivityType) bool {
	switch v {
	case ActivityDiningNightLife, ActivityEntertainment, ActivitySports,
		ActivityArcadeAdventure, ActivityCasualWentOut, ActivityEvent, ActivityDating:
		return true
	}
	return false
}

// HangoutPost represents a proposed meetup owned by its creator.
// Invariant: the number of participant rows never exceeds MaxParticipants.
type HangoutPost struct {
	ID                 string       `json:"id" db:"id"`
	CreatorID          string       `json:"creator_id" db:"creator_id"`
	Title              string       `json:"title" db:"title"`
	Description        *string      `json:"description" db:"description"`
	ActivityType       ActivityType `json:"activity_type" db:"activity_type"`
	DatingPreferences  *string      `json:"dating_preferences" db:"dating_preferences"`
	City               string       `json:"city" db:"city"`
	VenueName          *string      `json:"venue_name" db:"venue_name"`
	VenueAddress       *string      `json:"venue_address" db:"venue_address"`
	ScheduledAt        time.Time    `json:"scheduled_at" db:"scheduled_at"`
	MaxParticipants    int          `json:"max_participants" db:"max_participants"`
	Status             PostStatus   `json:"status" db:"status"`
	IsPublic           bool         `json:"is_public" db:"is_public"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`

	// Eagerly resolved relations, populated by GetPost only.
	Creator      *User                 `json:"creator,omitempty" db:"-"`
	Participants []*HangoutParticipant `json:"participants,omitempty" db:"-"`
}

// HangoutRequest represents a user's intent to join a post, subject to
// the creator's approval. At most one non-cancelled request may exist
// per (post, requester) pair.
type HangoutRequest struct {
	ID          string        `json:"id" db:"id"`
	PostID      string        `json:"post_id" db:"post_id"`
	RequesterID string        `json:"requester_id" db:"requester_id"`
	Message     *string       `json:"message" db:"message"`
	Status      RequestStatus `json:"status" db:"status"`
	RespondedAt *time.Time    `json:"responded_at" db:"responded_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// HangoutParticipant represents confirmed membership in a post.
type HangoutParticipant struct {
	ID       string          `json:"id" db:"id"`
	PostID   string          `json:"post_id" db:"post_id"`
	UserID   string          `json:"user_id" db:"user_id"`
	Role     ParticipantRole `json:"role" db:"role"`
	JoinedAt time.Time       `json:"joined_at" db:"joined_at"`
}

// Review is a post-hoc rating between two participants of a completed
// hangout. It has no lifecycle transitions.
type Review struct {
	ID         string    `json:"id" db:"id"`
	HangoutID  string    `json:"hangout_id" db:"hangout_id"`
	ReviewerID string    `json:"reviewer_id" db:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id" db:"reviewee_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    *string   `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
