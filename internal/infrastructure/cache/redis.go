package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/metrics"
)

// videoJSON is the JSON representation of a Video for caching.
// Using explicit struct avoids coupling to domain model's JSON tags.
type videoJSON struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	PublishedAt  string `json:"published_at"`
	ChannelTitle string `json:"channel_title"`
}

// RedisSearchCache implements SearchCache using Redis as the backing store.
type RedisSearchCache struct {
	client *redis.Client
}

// NewRedisSearchCache creates a new Redis-backed search cache.
func NewRedisSearchCache(client *redis.Client) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
	}
}

// Get retrieves search results from Redis cache.
// Expired keys are removed by Redis, so they surface as a miss.
func (c *RedisSearchCache) Get(ctx context.Context, key string) ([]model.Video, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheOp(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis)
			return nil, false, nil
		}
		metrics.RecordCacheOp(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis)
		return nil, false, fmt.Errorf("redis get: %w: %w", repository.ErrStoreUnavailable, err)
	}

	videos, err := deserialize(data)
	if err != nil {
		metrics.RecordCacheOp(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis)
		return nil, false, fmt.Errorf("deserialize videos: %w", err)
	}

	metrics.RecordCacheOp(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis)
	return videos, true, nil
}

// Set stores search results in Redis cache with the specified TTL.
func (c *RedisSearchCache) Set(ctx context.Context, key string, videos []model.Video, ttl time.Duration) error {
	data, err := serialize(videos)
	if err != nil {
		return fmt.Errorf("serialize videos: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordCacheOp(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeRedis)
		return fmt.Errorf("redis set: %w: %w", repository.ErrStoreUnavailable, err)
	}

	metrics.RecordCacheOp(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeRedis)
	return nil
}

// serialize converts a result list to JSON bytes.
func serialize(videos []model.Video) ([]byte, error) {
	out := make([]videoJSON, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoJSON{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			PublishedAt:  v.PublishedAt.Format(time.RFC3339Nano),
			ChannelTitle: v.ChannelTitle,
		})
	}
	return json.Marshal(out)
}

// deserialize converts JSON bytes to a result list.
func deserialize(data []byte) ([]model.Video, error) {
	var in []videoJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}

	videos := make([]model.Video, 0, len(in))
	for _, v := range in {
		publishedAt, err := time.Parse(time.RFC3339Nano, v.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse published_at: %w", err)
		}

		videos = append(videos, model.Video{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			PublishedAt:  publishedAt,
			ChannelTitle: v.ChannelTitle,
		})
	}

	return videos, nil
}

// Compile-time verification that RedisSearchCache implements SearchCache.
var _ SearchCache = (*RedisSearchCache)(nil)
