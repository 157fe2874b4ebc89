package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/internal/dto"
	"github.com/vibelink/hangout-service/internal/service"
)

// HangoutHandler handles hangout posts, join requests and reviews
type HangoutHandler struct {
	hangoutService  service.HangoutService
	defaultPageSize int
	maxPageSize     int
}

// NewHangoutHandler creates a new hangout handler
func NewHangoutHandler(hangoutService service.HangoutService, defaultPageSize, maxPageSize int) *HangoutHandler {
	return &HangoutHandler{
		hangoutService:  hangoutService,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// CreatePost handles hangout post creation
// @Summary Create a hangout post
// @Description Create a new hangout post; the creator becomes its host
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "New post"
// @Success 201 {object} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /posts [post]
func (h *HangoutHandler) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	post, err := h.hangoutService.CreatePost(c.Request.Context(), CurrentUser(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewPostResponse(post))
}

// GetFeed returns open upcoming posts for a city
// @Summary Browse the feed
// @Description List open, upcoming public posts for a city, soonest first
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param city query string true "City to browse"
// @Param activity_type query string false "Filter by activity type"
// @Param page query int false "Page number, starting at 1"
// @Param page_size query int false "Page size"
// @Success 200 {array} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /posts/feed [get]
func (h *HangoutHandler) GetFeed(c *gin.Context) {
	q, ok := h.parseFeedQuery(c)
	if !ok {
		return
	}

	posts, err := h.hangoutService.GetFeed(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, dto.NewPostResponse(p))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HangoutHandler) parseFeedQuery(c *gin.Context) (dto.FeedQuery, bool) {
	q := dto.FeedQuery{
		City:     c.Query("city"),
		Page:     1,
		PageSize: h.defaultPageSize,
	}

	if q.City == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "city is required",
		})
		return q, false
	}

	if raw := c.Query("activity_type"); raw != "" {
		activity := domain.ActivityType(raw)
		if !domain.ValidActivityType(activity) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Message: "invalid activity type",
			})
			return q, false
		}
		q.ActivityType = &activity
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Message: "page must be a positive integer",
			})
			return q, false
		}
		q.Page = page
	}

	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > h.maxPageSize {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Message: "page_size must be between 1 and " + strconv.Itoa(h.maxPageSize),
			})
			return q, false
		}
		q.PageSize = size
	}

	return q, true
}

// GetPost returns a single post with its participants
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id} [get]
func (h *HangoutHandler) GetPost(c *gin.Context) {
	post, err := h.hangoutService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPostResponse(post))
}

// UpdatePost applies a partial update to a post
// @Summary Update a post
// @Description Update a post; only provided fields change. Creator only.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.UpdatePostRequest true "Fields to change"
// @Success 200 {object} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id} [patch]
func (h *HangoutHandler) UpdatePost(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	post, err := h.hangoutService.UpdatePost(c.Request.Context(), c.Param("id"), CurrentUser(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPostResponse(post))
}

// CancelPost cancels a post
// @Summary Cancel a post
// @Description Cancel an open post. Creator only.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id} [delete]
func (h *HangoutHandler) CancelPost(c *gin.Context) {
	post, err := h.hangoutService.CancelPost(c.Request.Context(), c.Param("id"), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPostResponse(post))
}

// SendRequest asks to join a post
// @Summary Request to join
// @Description Send a join request to an open post
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.SendRequestRequest false "Optional message"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /posts/{id}/requests [post]
func (h *HangoutHandler) SendRequest(c *gin.Context) {
	var req dto.SendRequestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
			return
		}
	}

	created, err := h.hangoutService.SendRequest(c.Request.Context(), c.Param("id"), CurrentUser(c).ID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRequestResponse(created))
}

// ListPostRequests lists a post's join requests
// @Summary List join requests for a post
// @Description List all join requests for a post. Creator only.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {array} dto.RequestResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{id}/requests [get]
func (h *HangoutHandler) ListPostRequests(c *gin.Context) {
	reqs, err := h.hangoutService.ListPostRequests(c.Request.Context(), c.Param("id"), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		resp = append(resp, dto.NewRequestResponse(r))
	}

	c.JSON(http.StatusOK, resp)
}

// RespondToRequest accepts or declines a join request
// @Summary Respond to a join request
// @Description Accept or decline a pending join request. Post creator only.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body dto.RespondRequestRequest true "accept or decline"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id}/respond [post]
func (h *HangoutHandler) RespondToRequest(c *gin.Context) {
	var req dto.RespondRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	updated, err := h.hangoutService.RespondToRequest(c.Request.Context(), c.Param("id"), CurrentUser(c).ID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRequestResponse(updated))
}

// CancelRequest withdraws a pending join request
// @Summary Cancel a join request
// @Description Withdraw a pending join request. Requester only.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /requests/{id} [delete]
func (h *HangoutHandler) CancelRequest(c *gin.Context) {
	if err := h.hangoutService.CancelRequest(c.Request.Context(), c.Param("id"), CurrentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "request cancelled"})
}

// ListMyPosts lists the authenticated user's posts
// @Summary List my posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PostResponse
// @Router /users/me/posts [get]
func (h *HangoutHandler) ListMyPosts(c *gin.Context) {
	posts, err := h.hangoutService.ListMyPosts(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, dto.NewPostResponse(p))
	}

	c.JSON(http.StatusOK, resp)
}

// ListMyRequests lists the authenticated user's join requests
// @Summary List my join requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RequestResponse
// @Router /users/me/requests [get]
func (h *HangoutHandler) ListMyRequests(c *gin.Context) {
	reqs, err := h.hangoutService.ListMyRequests(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		resp = append(resp, dto.NewRequestResponse(r))
	}

	c.JSON(http.StatusOK, resp)
}

// CreateReview rates a fellow participant of a completed hangout
// @Summary Review a participant
// @Description Leave a rating for another participant after the hangout completes
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.CreateReviewRequest true "Review"
// @Success 201 {object} dto.ReviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /posts/{id}/reviews [post]
func (h *HangoutHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	review, err := h.hangoutService.CreateReview(c.Request.Context(), c.Param("id"), CurrentUser(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewReviewResponse(review))
}

// ListUserReviews lists reviews received by a user
// @Summary List a user's reviews
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} dto.ReviewResponse
// @Router /users/{id}/reviews [get]
func (h *HangoutHandler) ListUserReviews(c *gin.Context) {
	reviews, err := h.hangoutService.ListUserReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp = append(resp, dto.NewReviewResponse(r))
	}

	c.JSON(http.StatusOK, resp)
}
