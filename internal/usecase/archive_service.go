package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hszk-dev/ytsearch/internal/domain/repository"
)

const (
	// DefaultMaxRetries is the number of failed attempts after which an event is dropped.
	DefaultMaxRetries = 3

	archiveContentType = "application/json"
)

// ArchiveServiceConfig holds configuration for ArchiveService.
type ArchiveServiceConfig struct {
	// MaxRetries is the maximum number of retry attempts before an event is dropped.
	MaxRetries int
	// Now stamps archived_at. Defaults to time.Now.
	Now func() time.Time
}

// DefaultArchiveServiceConfig returns the default configuration.
func DefaultArchiveServiceConfig() ArchiveServiceConfig {
	return ArchiveServiceConfig{
		MaxRetries: DefaultMaxRetries,
		Now:        time.Now,
	}
}

// ArchiveService writes search events to object storage.
type ArchiveService interface {
	// ProcessEvent archives one search event.
	// Returns nil on success, on a duplicate, and when retries are exhausted.
	// Returns an error for transient failures that should trigger a retry.
	ProcessEvent(ctx context.Context, event repository.SearchEvent) error
}

type archiveService struct {
	storage    repository.ObjectStorage
	maxRetries int
	now        func() time.Time
}

// NewArchiveService creates a new ArchiveService.
func NewArchiveService(storage repository.ObjectStorage, cfg ArchiveServiceConfig) ArchiveService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &archiveService{
		storage:    storage,
		maxRetries: cfg.MaxRetries,
		now:        now,
	}
}

// archivedSearch is the JSON document stored per search.
type archivedSearch struct {
	ID          string                  `json:"id"`
	Query       string                  `json:"query"`
	MaxResults  int                     `json:"max_results"`
	ResultCount int                     `json:"result_count"`
	Results     []repository.EventVideo `json:"results"`
	ExecutedAt  time.Time               `json:"executed_at"`
	ArchivedAt  time.Time               `json:"archived_at"`
}

func (s *archiveService) ProcessEvent(ctx context.Context, event repository.SearchEvent) error {
	if event.RetryCount >= s.maxRetries {
		slog.Error("dropping search event after max retries",
			"event_id", event.ID,
			"query", event.Query,
			"retry_count", event.RetryCount,
		)
		return nil
	}

	key := ArchiveKey(event)

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check archive object: %w", err)
	}
	if exists {
		slog.Info("search event already archived, skipping",
			"event_id", event.ID,
			"key", key,
		)
		return nil
	}

	results := event.Results
	if results == nil {
		results = []repository.EventVideo{}
	}

	body, err := json.Marshal(archivedSearch{
		ID:          event.ID.String(),
		Query:       event.Query,
		MaxResults:  event.MaxResults,
		ResultCount: len(results),
		Results:     results,
		ExecutedAt:  event.ExecutedAt,
		ArchivedAt:  s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal archive document: %w", err)
	}

	if err := s.storage.Upload(ctx, key, bytes.NewReader(body), archiveContentType); err != nil {
		return fmt.Errorf("failed to upload archive document: %w", err)
	}

	slog.Info("search archived",
		"event_id", event.ID,
		"key", key,
		"result_count", len(results),
	)
	return nil
}

// ArchiveKey returns the object key for an event:
// searches/{YYYY}/{MM}/{DD}/{event_id}.json, dated by ExecutedAt in UTC.
func ArchiveKey(event repository.SearchEvent) string {
	return fmt.Sprintf("searches/%s/%s.json",
		event.ExecutedAt.UTC().Format("2006/01/02"),
		event.ID.String(),
	)
}
