package cache

import (
	"context"
	"time"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
)

// SearchCache defines the interface for caching search results by key.
// Implementations should handle serialization/deserialization transparently.
type SearchCache interface {
	// Get retrieves the results stored under key.
	// Returns false if the key is absent or expired (cache miss).
	Get(ctx context.Context, key string) ([]model.Video, bool, error)

	// Set stores results under key with the specified TTL.
	Set(ctx context.Context, key string, videos []model.Video, ttl time.Duration) error
}
