package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vibelink/hangout-service/pkg/database"
	"go.uber.org/zap"
)

// RateLimiter implements a sliding-window-log limiter on Redis sorted
// sets. Each request is a member scored by its unix timestamp; members
// older than the window are pruned before counting.
type RateLimiter struct {
	redis  *database.Redis
	logger *zap.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{redis: redis, logger: logger}
}

// Allow records the request if the limit permits it. When the limit is
// exhausted it returns allowed=false and the wait until the oldest
// entry slides out of the window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	now := time.Now()
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	windowStart := strconv.FormatInt(now.Add(-window).Unix(), 10)
	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", windowStart).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to prune rate limit window: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count rate limit window: %w", err)
	}

	if count >= int64(limit) {
		retryAfter := window
		oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			elapsed := now.Sub(time.Unix(int64(oldest[0].Score), 0))
			if wait := window - elapsed; wait > 0 {
				retryAfter = wait
			}
		}
		return false, retryAfter, nil
	}

	err = r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	}).Err()
	if err != nil {
		return false, 0, fmt.Errorf("failed to record request: %w", err)
	}

	if err := r.redis.Client.Expire(ctx, redisKey, window+time.Minute).Err(); err != nil {
		r.logger.Warn("failed to set rate limit key expiry", zap.String("key", redisKey), zap.Error(err))
	}

	return true, 0, nil
}

// Remaining returns how many requests the key can still make in the
// current window.
func (r *RateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	windowStart := strconv.FormatInt(time.Now().Add(-window).Unix(), 10)
	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", windowStart).Err(); err != nil {
		return 0, fmt.Errorf("failed to prune rate limit window: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count rate limit window: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}
