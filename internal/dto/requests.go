package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the opaque refresh token being exchanged or revoked.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest is a partial profile update. Absent fields are
// left untouched; explicit nulls clear the column.
type UpdateProfileRequest struct {
	FullName  Optional[string]   `json:"full_name"`
	Bio       Optional[string]   `json:"bio"`
	AvatarURL Optional[string]   `json:"avatar_url"`
	City      Optional[string]   `json:"city"`
	Latitude  Optional[float64]  `json:"latitude"`
	Longitude Optional[float64]  `json:"longitude"`
	Interests Optional[[]string] `json:"interests"`
}

// TokenResponse represents a successful login or refresh
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// UserResponse represents a user profile in responses
type UserResponse struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	FullName   *string  `json:"full_name"`
	Bio        *string  `json:"bio"`
	AvatarURL  *string  `json:"avatar_url"`
	City       *string  `json:"city"`
	Interests  []string `json:"interests"`
	IsVerified bool     `json:"is_verified"`
	CreatedAt  string   `json:"created_at"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
