package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/internal/dto"
	"github.com/vibelink/hangout-service/internal/service"
)

const contextUserKey = "current_user"

// AuthMiddleware validates the bearer token and stores the resolved
// user in the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authorization header is required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		user, err := authService.ResolveBearer(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Set("user_id", user.ID)

		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware. It must only
// be called from handlers behind that middleware.
func CurrentUser(c *gin.Context) *domain.User {
	user, _ := c.MustGet(contextUserKey).(*domain.User)
	return user
}
