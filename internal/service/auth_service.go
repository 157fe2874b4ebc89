package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/internal/dto"
	"github.com/vibelink/hangout-service/internal/repository"
	"github.com/vibelink/hangout-service/internal/utils"
	"go.uber.org/zap"
)

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *utils.JWTManager
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *utils.JWTManager,
	logger *zap.Logger,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register registers a new user. Email and username uniqueness each
// fail with Conflict; the database unique constraints back the checks
// up under concurrent registration.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	email := utils.SanitizeEmail(req.Email)
	username := utils.SanitizeUsername(req.Username)

	if !utils.ValidateEmail(email) {
		return nil, BadRequestError("invalid email format")
	}
	if !utils.ValidateUsername(username) {
		return nil, BadRequestError("username must be 3-50 characters of letters, numbers, and underscores")
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, BadRequestError("password must be at least 8 characters long")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ConflictError("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, ConflictError("username already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		IsActive:     true,
		IsVerified:   false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ConflictError("email already registered")
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ConflictError("username already taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and issues an access token plus an opaque
// refresh token. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, UnauthorizedError("invalid credentials")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, UnauthorizedError("invalid credentials")
	}

	if !user.IsActive {
		return nil, ForbiddenError("account is disabled")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token is echoed back unchanged; there is no rotation. The
// three rejection reasons collapse to one caller-visible error but stay
// distinguishable in the server logs.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	tokenHash := utils.HashToken(refreshToken)

	record, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("refresh rejected: unknown token hash")
			return nil, UnauthorizedError("invalid refresh token")
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	if record.IsRevoked {
		s.logger.Info("refresh rejected: token revoked", zap.String("token_id", record.ID))
		return nil, UnauthorizedError("invalid refresh token")
	}

	if time.Now().After(record.ExpiresAt) {
		s.logger.Info("refresh rejected: token expired", zap.String("token_id", record.ID))
		return nil, UnauthorizedError("invalid refresh token")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(record.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.jwtManager.GetAccessTokenExpiry(),
	}, nil
}

// Logout revokes the matching refresh token. A token that does not
// exist is a silent no-op, not an error.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	record, err := s.tokenRepo.GetByTokenHash(ctx, utils.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get token: %w", err)
	}

	if err := s.tokenRepo.Revoke(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// LogoutAll revokes every active refresh token the user holds, ending
// their sessions on all devices.
func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	s.logger.Info("all sessions revoked", zap.String("user_id", userID))
	return nil
}

// ResolveBearer validates a signed access token and loads the acting
// user. Missing or deactivated users fail the same way an invalid
// token does.
func (s *authService) ResolveBearer(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, UnauthorizedError("invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, UnauthorizedError("invalid or expired token")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, UnauthorizedError("invalid or expired token")
	}

	return user, nil
}

// GetProfile returns the user's profile
func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateProfile applies only explicitly provided fields. Absent fields
// stay untouched; explicit nulls clear nullable columns.
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName.Present {
		user.FullName = req.FullName.Ptr()
	}
	if req.Bio.Present {
		user.Bio = req.Bio.Ptr()
	}
	if req.AvatarURL.Present {
		user.AvatarURL = req.AvatarURL.Ptr()
	}
	if req.City.Present {
		user.City = req.City.Ptr()
	}
	if req.Latitude.Present {
		user.Latitude = req.Latitude.Ptr()
	}
	if req.Longitude.Present {
		user.Longitude = req.Longitude.Ptr()
	}
	if req.Interests.Present {
		if req.Interests.Null {
			user.Interests = nil
		} else {
			user.Interests = req.Interests.Value
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// issueTokens generates an access token and a stored opaque refresh token.
func (s *authService) issueTokens(ctx context.Context, userID string) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	rawRefresh, expiresAt, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := &domain.RefreshToken{
		UserID:    userID,
		TokenHash: utils.HashToken(rawRefresh),
		ExpiresAt: expiresAt,
	}

	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		TokenType:    "bearer",
		ExpiresIn:    s.jwtManager.GetAccessTokenExpiry(),
	}, nil
}
