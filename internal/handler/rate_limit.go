package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vibelink/hangout-service/internal/dto"
	"github.com/vibelink/hangout-service/internal/service"
	"go.uber.org/zap"
)

// RateLimitMiddleware throttles requests per key. Limiter failures let
// the request through so Redis outages do not take the API down.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, logger *zap.Logger, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, retryAfter, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))

		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   "Too Many Requests",
				Message: "Rate limit exceeded",
			})
			c.Abort()
			return
		}

		if remaining, err := rateLimiter.Remaining(c.Request.Context(), key, limit, window); err == nil {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		c.Next()
	}
}

// KeyByClientIP rate-limits by source address.
func KeyByClientIP(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		return prefix + ":" + c.ClientIP()
	}
}

// KeyByUser rate-limits by authenticated user, falling back to the
// source address when the route is public.
func KeyByUser(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		if id := c.GetString("user_id"); id != "" {
			return prefix + ":user:" + id
		}
		return prefix + ":" + c.ClientIP()
	}
}
