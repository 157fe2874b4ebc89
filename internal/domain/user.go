package domain

import "time"

// User represents a registered account in the system
type User struct {
	ID           string     `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     *string    `json:"full_name" db:"full_name"`
	Bio          *string    `json:"bio" db:"bio"`
	AvatarURL    *string    `json:"avatar_url" db:"avatar_url"`
	City         *string    `json:"city" db:"city"`
	Latitude     *float64   `json:"latitude" db:"latitude"`
	Longitude    *float64   `json:"longitude" db:"longitude"`
	Interests    []string   `json:"interests" db:"interests"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
}

// RefreshToken represents a stored session credential. Only the SHA-256
// hash of the opaque token value is persisted; revoked and expired rows
// are retained for audit rather than deleted.
type RefreshToken struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	TokenHash  string    `json:"-" db:"token_hash"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	IsRevoked  bool      `json:"is_revoked" db:"is_revoked"`
	DeviceInfo *string   `json:"device_info" db:"device_info"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
