package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vibelink/hangout-service/internal/domain"
	"github.com/vibelink/hangout-service/internal/dto"
	"github.com/vibelink/hangout-service/pkg/database"
	"go.uber.org/zap"
)

// FeedCache caches feed pages in Redis. Each city has a version
// counter; mutations bump it, which orphans every cached page for that
// city without scanning keys. Orphaned pages expire with the TTL.
type FeedCache struct {
	redis  *database.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewFeedCache creates a new feed cache
func NewFeedCache(redis *database.Redis, ttl time.Duration, logger *zap.Logger) *FeedCache {
	return &FeedCache{redis: redis, ttl: ttl, logger: logger}
}

// Get returns the cached page for the query, or ok=false on a miss.
// Cache failures degrade to a miss so the feed stays available.
func (c *FeedCache) Get(ctx context.Context, q dto.FeedQuery) ([]*domain.HangoutPost, bool) {
	key, err := c.pageKey(ctx, q)
	if err != nil {
		c.logger.Warn("feed cache unavailable", zap.Error(err))
		return nil, false
	}

	data, err := c.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var posts []*domain.HangoutPost
	if err := json.Unmarshal(data, &posts); err != nil {
		c.logger.Warn("failed to decode cached feed page", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return posts, true
}

// Set stores a feed page under the city's current version.
func (c *FeedCache) Set(ctx context.Context, q dto.FeedQuery, posts []*domain.HangoutPost) {
	key, err := c.pageKey(ctx, q)
	if err != nil {
		c.logger.Warn("feed cache unavailable", zap.Error(err))
		return
	}

	data, err := json.Marshal(posts)
	if err != nil {
		c.logger.Warn("failed to encode feed page", zap.Error(err))
		return
	}

	if err := c.redis.Client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache feed page", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate bumps the city's version counter, making all cached pages
// for that city unreachable.
func (c *FeedCache) Invalidate(ctx context.Context, city string) {
	if err := c.redis.Client.Incr(ctx, versionKey(city)).Err(); err != nil {
		c.logger.Warn("failed to invalidate feed cache", zap.String("city", city), zap.Error(err))
	}
}

func (c *FeedCache) pageKey(ctx context.Context, q dto.FeedQuery) (string, error) {
	version, err := c.redis.Client.Get(ctx, versionKey(q.City)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to get feed version: %w", err)
	}

	activity := "any"
	if q.ActivityType != nil {
		activity = string(*q.ActivityType)
	}

	return fmt.Sprintf("feed:%s:v%d:%s:%d:%d", q.City, version, activity, q.Page, q.PageSize), nil
}

func versionKey(city string) string {
	return fmt.Sprintf("feed:version:%s", city)
}
