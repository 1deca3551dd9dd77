// Package youtube implements repository.VideoPlatform on top of the
// YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/metrics"
)

var snippetPart = []string{"snippet"}

// Config holds YouTube client configuration.
type Config struct {
	APIKey  string
	Timeout time.Duration
}

// Client wraps youtube.Service for read-only, API-key access.
type Client struct {
	service *youtube.Service
	timeout time.Duration
}

// NewClient creates a new YouTube client. Extra options are appended after
// the API key, which lets tests point the service at a local endpoint.
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube api key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		service: service,
		timeout: timeout,
	}, nil
}

// Search runs search.list restricted to videos.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]model.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.service.Search.List(snippetPart).
		Q(query).
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		metrics.RecordPlatformRequest(metrics.PlatformOpSearch, metrics.StatusError)
		return nil, fmt.Errorf("search %q: %w: %w", query, repository.ErrUpstreamFailure, err)
	}

	videos := make([]model.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		s := item.Snippet
		videos = append(videos, model.Video{
			ID:           item.Id.VideoId,
			Title:        s.Title,
			Description:  s.Description,
			ThumbnailURL: thumbnailURL(s.Thumbnails),
			PublishedAt:  parsePublishedAt(s.PublishedAt),
			ChannelTitle: s.ChannelTitle,
		})
	}

	metrics.RecordPlatformRequest(metrics.PlatformOpSearch, metrics.StatusSuccess)
	return videos, nil
}

// GetVideo runs videos.list for a single id.
// Returns repository.ErrVideoNotFound if the platform has no such video.
func (c *Client) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.service.Videos.List(snippetPart).
		Id(id).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			metrics.RecordPlatformRequest(metrics.PlatformOpGetVideo, metrics.StatusNotFound)
			return nil, repository.ErrVideoNotFound
		}
		metrics.RecordPlatformRequest(metrics.PlatformOpGetVideo, metrics.StatusError)
		return nil, fmt.Errorf("get video %s: %w: %w", id, repository.ErrUpstreamFailure, err)
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		metrics.RecordPlatformRequest(metrics.PlatformOpGetVideo, metrics.StatusNotFound)
		return nil, repository.ErrVideoNotFound
	}

	item := resp.Items[0]
	s := item.Snippet
	metrics.RecordPlatformRequest(metrics.PlatformOpGetVideo, metrics.StatusSuccess)

	return &model.Video{
		ID:           item.Id,
		Title:        s.Title,
		Description:  s.Description,
		ThumbnailURL: thumbnailURL(s.Thumbnails),
		PublishedAt:  parsePublishedAt(s.PublishedAt),
		ChannelTitle: s.ChannelTitle,
	}, nil
}

// thumbnailURL picks the best available size: high, then medium, then default.
func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// parsePublishedAt returns the zero time for an empty or malformed value.
func parsePublishedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

var _ repository.VideoPlatform = (*Client)(nil)
