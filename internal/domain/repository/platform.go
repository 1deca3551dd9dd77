package repository

import (
	"context"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
)

// VideoPlatform defines the operations consumed from the external video platform.
// Implementations should be provided by the infrastructure layer (e.g., YouTube Data API).
type VideoPlatform interface {
	// Search returns up to maxResults videos matching query.
	// Returns an error wrapping ErrUpstreamFailure if the platform call fails.
	Search(ctx context.Context, query string, maxResults int) ([]model.Video, error)

	// GetVideo retrieves a single video by its platform ID.
	// Returns ErrVideoNotFound if the platform reports no such video.
	GetVideo(ctx context.Context, id string) (*model.Video, error)
}
