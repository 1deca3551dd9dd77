package repository

import (
	"context"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
)

// HistoryRepository defines the append-only search history log.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL, SQLite).
type HistoryRepository interface {
	// Append persists a new record and sets its ID.
	Append(ctx context.Context, record *model.HistoryRecord) error

	// Recent returns at most limit records, newest first.
	// Returns empty slice if no records exist.
	Recent(ctx context.Context, limit int) ([]*model.HistoryRecord, error)
}
