package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SearchEvent is published for every search served by the video platform.
type SearchEvent struct {
	ID         uuid.UUID    `json:"id"`
	Query      string       `json:"query"`
	MaxResults int          `json:"max_results"`
	Results    []EventVideo `json:"results"`
	ExecutedAt time.Time    `json:"executed_at"`
	RetryCount int          `json:"retry_count"`
}

// EventVideo is the wire form of a search result inside a SearchEvent.
type EventVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	PublishedAt  time.Time `json:"published_at"`
	ChannelTitle string    `json:"channel_title"`
}

// EventPublisher publishes search events.
// Used by the API server after a platform search.
type EventPublisher interface {
	PublishSearchEvent(ctx context.Context, event SearchEvent) error
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	EventPublisher

	// ConsumeSearchEvents starts consuming search events from the queue.
	// The handler function is called for each received event.
	// Used by the worker service.
	ConsumeSearchEvents(ctx context.Context, handler func(event SearchEvent) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
