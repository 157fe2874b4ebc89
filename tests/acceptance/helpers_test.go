package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vibelink/hangout-service/internal/dto"
)

// doJSON performs a JSON request against the running app, optionally
// authenticated, and decodes the response body into out when non-nil.
func (s *Suite) doJSON(method, path, token string, body any, out any) *http.Response {
	s.T().Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	return resp
}

// registerUser registers a fresh user and returns its profile and an
// access token obtained by logging in.
func (s *Suite) registerUser(name string) (dto.UserResponse, string) {
	s.T().Helper()

	email := fmt.Sprintf("%s@example.com", name)
	password := "Password123"

	var user dto.UserResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:    email,
		Username: name,
		Password: password,
	}, &user)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var tokens dto.TokenResponse
	resp = s.doJSON(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: password,
	}, &tokens)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	return user, tokens.AccessToken
}

// createPost creates an open post in Berlin scheduled for tomorrow.
func (s *Suite) createPost(token string, maxParticipants int) dto.PostResponse {
	s.T().Helper()

	var post dto.PostResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title":            "Board games night",
		"activity_type":    "Casual_WentOut",
		"city":             "Berlin",
		"scheduled_at":     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"max_participants": maxParticipants,
	}, &post)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	return post
}

// sendRequest sends a join request to a post and returns it.
func (s *Suite) sendRequest(token, postID string) dto.RequestResponse {
	s.T().Helper()

	var req dto.RequestResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/posts/"+postID+"/requests", token, dto.SendRequestRequest{}, &req)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	return req
}

// respond accepts or declines a request as the post creator. The
// decoded body only carries request fields on success; callers check
// the status code first.
func (s *Suite) respond(token, requestID, action string) (int, dto.RequestResponse) {
	s.T().Helper()

	var req dto.RequestResponse
	resp := s.doJSON(http.MethodPost, "/api/v1/requests/"+requestID+"/respond", token, dto.RespondRequestRequest{Action: action}, &req)
	return resp.StatusCode, req
}

// getPost fetches a post by id.
func (s *Suite) getPost(token, postID string) dto.PostResponse {
	s.T().Helper()

	var post dto.PostResponse
	resp := s.doJSON(http.MethodGet, "/api/v1/posts/"+postID, token, nil, &post)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	return post
}
