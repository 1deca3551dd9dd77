package model

import "time"

// HistoryRecord is an audit entry for one search served by the video platform.
// ID is assigned by the store and increases with insertion order.
type HistoryRecord struct {
	ID          int64
	Query       string
	MaxResults  int
	ResultCount int
	CreatedAt   time.Time
}

// NewHistoryRecord builds a record for a completed platform search.
func NewHistoryRecord(q SearchQuery, resultCount int, at time.Time) *HistoryRecord {
	return &HistoryRecord{
		Query:       q.Query,
		MaxResults:  q.MaxResults,
		ResultCount: resultCount,
		CreatedAt:   at,
	}
}
