package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a user with the email already exists
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateUsername is returned when a user with the username already exists
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicateToken is returned when a token with the same hash already exists
	ErrDuplicateToken = errors.New("token with this hash already exists")

	// ErrDuplicateRequest is returned when a non-cancelled join request
	// already exists for the (post, requester) pair
	ErrDuplicateRequest = errors.New("active request for this post already exists")

	// ErrDuplicateParticipant is returned when the user is already a
	// participant of the post
	ErrDuplicateParticipant = errors.New("user is already a participant of this post")

	// ErrDuplicateReview is returned when the reviewer already reviewed
	// this user for this hangout
	ErrDuplicateReview = errors.New("review for this hangout and user already exists")
)
