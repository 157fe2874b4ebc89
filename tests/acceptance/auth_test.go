package acceptance

import (
	"net/http"

	"github.com/vibelink/hangout-service/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	var user dto.UserResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "Password123",
	}, &user)

	s.Equal(http.StatusCreated, resp.StatusCode)
	s.NotEmpty(user.ID)
	s.Equal("alice@example.com", user.Email)
	s.Equal("alice", user.Username)
}

func (s *Suite) TestRegister_NormalizesEmailCase() {
	var user dto.UserResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    "Bob@Example.COM",
		Username: "bob",
		Password: "Password123",
	}, &user)

	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("bob@example.com", user.Email)

	var tokens dto.TokenResponse
	resp = s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "Password123",
	}, &tokens)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.registerUser("carol")

	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    "carol@example.com",
		Username: "carol2",
		Password: "Password123",
	}, &errResp)

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_DuplicateUsername() {
	s.registerUser("dave")

	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    "dave2@example.com",
		Username: "dave",
		Password: "Password123",
	}, &errResp)

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    "not-an-email",
		Username: "eve",
		Password: "Password123",
	}, nil)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.registerUser("frank")

	var tokens dto.TokenResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "frank@example.com",
		Password: "Password123",
	}, &tokens)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(tokens.AccessToken)
	s.NotEmpty(tokens.RefreshToken)
	s.Equal("bearer", tokens.TokenType)
	s.NotZero(tokens.ExpiresIn)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.registerUser("grace")

	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "grace@example.com",
		Password: "WrongPassword1",
	}, &errResp)

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("invalid credentials", errResp.Message)
}

func (s *Suite) TestLogin_UnknownEmailSameError() {
	s.registerUser("heidi")

	var wrongPass dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "heidi@example.com",
		Password: "WrongPassword1",
	}, &wrongPass)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var unknown dto.ErrorResponse
	resp = s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "WrongPassword1",
	}, &unknown)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// An unknown email and a wrong password are indistinguishable.
	s.Equal(wrongPass.Message, unknown.Message)
}

func (s *Suite) TestRefresh_Success() {
	s.registerUser("ivan")

	var tokens dto.TokenResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "ivan@example.com",
		Password: "Password123",
	}, &tokens)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var refreshed dto.TokenResponse
	resp = s.doJSON(http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	}, &refreshed)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(refreshed.AccessToken)
	// The refresh token is long-lived and is not rotated.
	s.Equal(tokens.RefreshToken, refreshed.RefreshToken)
}

func (s *Suite) TestRefresh_RevokedAfterLogout() {
	s.registerUser("judy")

	var tokens dto.TokenResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "judy@example.com",
		Password: "Password123",
	}, &tokens)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.doJSON(http.MethodPost, "/api/v1/auth/logout", "", dto.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	}, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.doJSON(http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: tokens.RefreshToken,
	}, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogoutAll_RevokesEverySession() {
	_, token := s.registerUser("mallory")

	// A second session on another device.
	var other dto.TokenResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "mallory@example.com",
		Password: "Password123",
	}, &other)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.doJSON(http.MethodPost, "/api/v1/auth/logout-all", token, nil, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.doJSON(http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: other.RefreshToken,
	}, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_GarbageToken() {
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: "not-a-real-token",
	}, nil)

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe() {
	_, token := s.registerUser("kevin")

	var user dto.UserResponse
	resp := s.doJSON(http.MethodGet, "/api/v1/users/me", token, nil, &user)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("kevin", user.Username)
}

func (s *Suite) TestGetMe_NoToken() {
	resp := s.doJSON(http.MethodGet, "/api/v1/users/me", "", nil, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestUpdateMe_PartialAndNull() {
	_, token := s.registerUser("laura")

	var user dto.UserResponse
	resp := s.doJSON(http.MethodPatch, "/api/v1/users/me", token, map[string]any{
		"bio":  "coffee and climbing",
		"city": "Berlin",
	}, &user)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NotNil(user.Bio)
	s.Equal("coffee and climbing", *user.Bio)
	s.Require().NotNil(user.City)
	s.Equal("Berlin", *user.City)

	// An explicit null clears a field; an absent field stays put.
	resp = s.doJSON(http.MethodPatch, "/api/v1/users/me", token, map[string]any{
		"bio": nil,
	}, &user)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Nil(user.Bio)
	s.Require().NotNil(user.City)
	s.Equal("Berlin", *user.City)
}
