package usecase

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
)

// mockPlatform provides a configurable mock for VideoPlatform.
type mockPlatform struct {
	searchFn      func(ctx context.Context, query string, maxResults int) ([]model.Video, error)
	getVideoFn    func(ctx context.Context, id string) (*model.Video, error)
	searchCount   atomic.Int32
	getVideoCount atomic.Int32
}

func (m *mockPlatform) Search(ctx context.Context, query string, maxResults int) ([]model.Video, error) {
	m.searchCount.Add(1)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, maxResults)
	}
	return testVideos(maxResults), nil
}

func (m *mockPlatform) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	m.getVideoCount.Add(1)
	if m.getVideoFn != nil {
		return m.getVideoFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

// mockHistory is an in-memory HistoryRepository with optional overrides.
type mockHistory struct {
	mu       sync.Mutex
	records  []*model.HistoryRecord
	nextID   int64
	appendFn func(ctx context.Context, record *model.HistoryRecord) error
	recentFn func(ctx context.Context, limit int) ([]*model.HistoryRecord, error)
}

func (m *mockHistory) Append(ctx context.Context, record *model.HistoryRecord) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]*model.HistoryRecord, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.HistoryRecord, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *mockHistory) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// mockSearchCache provides a configurable mock for SearchCache.
type mockSearchCache struct {
	getFn func(ctx context.Context, key string) ([]model.Video, bool, error)
	setFn func(ctx context.Context, key string, videos []model.Video, ttl time.Duration) error
}

func (m *mockSearchCache) Get(ctx context.Context, key string) ([]model.Video, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockSearchCache) Set(ctx context.Context, key string, videos []model.Video, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, videos, ttl)
	}
	return nil
}

// mockPublisher records published events.
type mockPublisher struct {
	mu        sync.Mutex
	events    []repository.SearchEvent
	publishFn func(ctx context.Context, event repository.SearchEvent) error
}

func (m *mockPublisher) PublishSearchEvent(ctx context.Context, event repository.SearchEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	uploadFn func(ctx context.Context, key string, reader io.Reader, contentType string) error
	existsFn func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func testVideos(n int) []model.Video {
	videos := make([]model.Video, n)
	for i := range videos {
		videos[i] = model.Video{
			ID:           "vid-" + string(rune('a'+i%26)),
			Title:        "Video",
			ThumbnailURL: "https://i.ytimg.com/vi/x/hqdefault.jpg",
			PublishedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ChannelTitle: "Channel",
		}
	}
	return videos
}
