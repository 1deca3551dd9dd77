package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/cache"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/metrics"
)

// HistoryLimit is the number of records returned by GetHistory.
const HistoryLimit = 10

// SearchService defines the search use cases served over HTTP.
type SearchService interface {
	// Search returns results for the query, from cache when fresh.
	// Only platform-served searches are written to history.
	Search(ctx context.Context, query string, maxResults int) ([]model.Video, error)

	// GetVideoDetails returns a single video from the platform.
	GetVideoDetails(ctx context.Context, id string) (*model.Video, error)

	// GetHistory returns the most recent searches, newest first.
	GetHistory(ctx context.Context) ([]*model.HistoryRecord, error)
}

// SearchServiceConfig holds configuration for SearchService.
type SearchServiceConfig struct {
	// CacheTTL is how long search results stay in the cache.
	CacheTTL time.Duration
	// Now is the clock used for history timestamps. Defaults to time.Now.
	Now func() time.Time
}

// DefaultSearchServiceConfig returns the default configuration.
func DefaultSearchServiceConfig() SearchServiceConfig {
	return SearchServiceConfig{
		CacheTTL: time.Hour,
		Now:      time.Now,
	}
}

type searchService struct {
	platform  repository.VideoPlatform
	cache     cache.SearchCache
	history   repository.HistoryRepository
	publisher repository.EventPublisher
	sfGroup   singleflight.Group

	cacheTTL time.Duration
	now      func() time.Time
}

// NewSearchService creates a SearchService. publisher may be nil when
// search events are disabled.
func NewSearchService(
	platform repository.VideoPlatform,
	searchCache cache.SearchCache,
	history repository.HistoryRepository,
	publisher repository.EventPublisher,
	cfg SearchServiceConfig,
) SearchService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &searchService{
		platform:  platform,
		cache:     searchCache,
		history:   history,
		publisher: publisher,
		cacheTTL:  cfg.CacheTTL,
		now:       now,
	}
}

// Search validates the input and runs the cache-aside flow.
// Concurrent identical searches share one execution via singleflight.
func (s *searchService) Search(ctx context.Context, query string, maxResults int) ([]model.Video, error) {
	q, err := model.NewSearchQuery(query, maxResults)
	if err != nil {
		return nil, err
	}

	key := q.CacheKey()
	// The flight runs detached from the caller that started it. A cancelled
	// caller stops waiting; the others still get the shared result.
	ch := s.sfGroup.DoChan(key, func() (any, error) {
		return s.searchWithCache(context.WithoutCancel(ctx), q, key)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if res.Shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if res.Err != nil {
		return nil, res.Err
	}
	return res.Val.([]model.Video), nil
}

func (s *searchService) searchWithCache(ctx context.Context, q model.SearchQuery, key string) ([]model.Video, error) {
	videos, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache get failed, falling back to platform",
			"cache_key", key,
			"error", err,
		)
	}
	if ok {
		return videos, nil
	}

	videos, err = s.platform.Search(ctx, q.Query, q.MaxResults)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, videos, s.cacheTTL); err != nil {
		slog.Warn("failed to cache search results",
			"cache_key", key,
			"error", err,
		)
	}

	executedAt := s.now()
	if err := s.history.Append(ctx, model.NewHistoryRecord(q, len(videos), executedAt)); err != nil {
		slog.Warn("failed to append search history",
			"query", q.Query,
			"error", err,
		)
	}

	s.publish(ctx, q, videos, executedAt)

	return videos, nil
}

func (s *searchService) publish(ctx context.Context, q model.SearchQuery, videos []model.Video, executedAt time.Time) {
	if s.publisher == nil {
		return
	}

	event := repository.SearchEvent{
		ID:         uuid.New(),
		Query:      q.Query,
		MaxResults: q.MaxResults,
		Results:    toEventVideos(videos),
		ExecutedAt: executedAt.UTC(),
	}
	if err := s.publisher.PublishSearchEvent(ctx, event); err != nil {
		slog.Warn("failed to publish search event",
			"event_id", event.ID,
			"query", q.Query,
			"error", err,
		)
	}
}

// GetVideoDetails passes through to the platform.
func (s *searchService) GetVideoDetails(ctx context.Context, id string) (*model.Video, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, model.ErrEmptyVideoID
	}
	return s.platform.GetVideo(ctx, id)
}

// GetHistory returns up to HistoryLimit records.
func (s *searchService) GetHistory(ctx context.Context) ([]*model.HistoryRecord, error) {
	return s.history.Recent(ctx, HistoryLimit)
}

func toEventVideos(videos []model.Video) []repository.EventVideo {
	out := make([]repository.EventVideo, len(videos))
	for i, v := range videos {
		out[i] = repository.EventVideo{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			PublishedAt:  v.PublishedAt,
			ChannelTitle: v.ChannelTitle,
		}
	}
	return out
}
