package repository

import (
	"github.com/vibelink/hangout-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	Token       TokenRepository
	Post        PostRepository
	Request     RequestRepository
	Participant ParticipantRepository
	Review      ReviewRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Token:       NewTokenRepository(db),
		Post:        NewPostRepository(db),
		Request:     NewRequestRepository(db),
		Participant: NewParticipantRepository(db),
		Review:      NewReviewRepository(db),
	}
}
