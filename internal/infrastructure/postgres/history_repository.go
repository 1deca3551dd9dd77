package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/ytsearch/internal/domain/model"
	"github.com/hszk-dev/ytsearch/internal/domain/repository"
	"github.com/hszk-dev/ytsearch/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	createHistoryTable = `
		CREATE TABLE IF NOT EXISTS search_history (
			id           BIGSERIAL PRIMARY KEY,
			query        TEXT NOT NULL,
			max_results  INTEGER NOT NULL,
			result_count INTEGER NOT NULL DEFAULT 0,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	createHistoryIndex = `
		CREATE INDEX IF NOT EXISTS idx_search_history_created_at
		ON search_history (created_at DESC)
	`
)

// HistoryRepository implements repository.HistoryRepository using PostgreSQL.
type HistoryRepository struct {
	db DBTX
}

// NewHistoryRepository creates a new HistoryRepository instance.
func NewHistoryRepository(db DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// EnsureSchema creates the search_history table and its index if missing.
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("failed to create search_history table: %w", err)
	}
	if _, err := r.db.Exec(ctx, createHistoryIndex); err != nil {
		return fmt.Errorf("failed to create search_history index: %w", err)
	}
	return nil
}

// Append persists a new history record and sets its ID.
func (r *HistoryRepository) Append(ctx context.Context, record *model.HistoryRecord) error {
	const query = `
		INSERT INTO search_history (query, max_results, result_count, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		record.Query,
		record.MaxResults,
		record.ResultCount,
		record.CreatedAt,
	).Scan(&record.ID)
	metrics.RecordDBQuery(metrics.DBQueryInsert, metrics.BackendPostgres, err)
	if err != nil {
		return fmt.Errorf("failed to append history record: %w: %w", repository.ErrStoreUnavailable, err)
	}

	return nil
}

// Recent returns at most limit records ordered newest first.
// Insertion order is taken from the BIGSERIAL id, so records sharing a timestamp stay ordered.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]*model.HistoryRecord, error) {
	const query = `
		SELECT id, query, max_results, result_count, created_at
		FROM search_history
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendPostgres, err)
		return nil, fmt.Errorf("failed to query history: %w: %w", repository.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := make([]*model.HistoryRecord, 0, limit)
	for rows.Next() {
		var rec model.HistoryRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Query,
			&rec.MaxResults,
			&rec.ResultCount,
			&rec.CreatedAt,
		); err != nil {
			metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendPostgres, err)
			return nil, fmt.Errorf("failed to scan history record: %w: %w", repository.ErrStoreUnavailable, err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendPostgres, err)
		return nil, fmt.Errorf("error iterating history: %w: %w", repository.ErrStoreUnavailable, err)
	}

	metrics.RecordDBQuery(metrics.DBQuerySelect, metrics.BackendPostgres, nil)
	return records, nil
}

// Compile-time verification that HistoryRepository implements repository.HistoryRepository.
var _ repository.HistoryRepository = (*HistoryRepository)(nil)
