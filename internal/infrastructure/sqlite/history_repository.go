package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/metrics"
)

const createHistoryTable = `
	CREATE TABLE IF NOT EXISTS search_history (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		query        TEXT NOT NULL,
		max_results  INTEGER NOT NULL,
		result_count INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	)
`

// HistoryRepository implements repository.HistoryRepository on SQLite.
// Timestamps are stored as RFC 3339 text in UTC.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// EnsureSchema creates the search_history table if missing.
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("failed to create search_history table: %w", err)
	}
	return nil
}

// Append inserts a record and sets its ID.
func (r *HistoryRepository) Append(ctx context.Context, record *model.HistoryRecord) error {
	const query = `
		INSERT INTO search_history (query, max_results, result_count, created_at)
		VALUES (?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		record.Query,
		record.MaxResults,
		record.ResultCount,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	metrics.RecordDBQuery(metrics.DBQueryInsert, metrics.BackendSQLite, err)
	if err != nil {
		return fmt.Errorf("failed to append history record: %w: %w", repository.ErrStoreUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read history record id: %w: %w", repository.ErrStoreUnavailable, err)
	}
	record.ID = id

	return nil
}

// Recent returns at most limit records, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]*model.HistoryRecord, error) {
	const query = `
		SELECT id, query, max_results, result_count, created_at
		FROM search_history
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendSQLite, err)
		return nil, fmt.Errorf("failed to query history: %w: %w", repository.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := make([]*model.HistoryRecord, 0, limit)
	for rows.Next() {
		var (
			rec       model.HistoryRecord
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.MaxResults, &rec.ResultCount, &createdAt); err != nil {
			metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendSQLite, err)
			return nil, fmt.Errorf("failed to scan history record: %w: %w", repository.ErrStoreUnavailable, err)
		}

		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendSQLite, err)
			return nil, fmt.Errorf("parse created_at of record %d: %w: %w", rec.ID, repository.ErrStoreUnavailable, err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendSQLite, err)
		return nil, fmt.Errorf("error iterating history: %w: %w", repository.ErrStoreUnavailable, err)
	}

	metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendSQLite, nil)
	return records, nil
}

var _ repository.HistoryRepository = (*HistoryRepository)(nil)
