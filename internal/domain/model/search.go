package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultMaxResults is used when the caller does not specify a bound.
	DefaultMaxResults = 10

	// MinMaxResults and MaxMaxResults bound the result count accepted by the platform.
	MinMaxResults = 1
	MaxMaxResults = 50

	cacheKeyPrefix = "search:v1:"
)

var (
	// ErrInvalidArgument is the parent of every caller input error.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrEmptyQuery           = fmt.Errorf("%w: query cannot be empty", ErrInvalidArgument)
	ErrMaxResultsOutOfRange = fmt.Errorf("%w: maxResults must be between %d and %d", ErrInvalidArgument, MinMaxResults, MaxMaxResults)
	ErrEmptyVideoID         = fmt.Errorf("%w: video ID cannot be empty", ErrInvalidArgument)
)

// SearchQuery is a validated search request.
type SearchQuery struct {
	Query      string
	MaxResults int
}

// NewSearchQuery validates the input and returns a SearchQuery.
// The query is trimmed; maxResults outside [1, 50] is rejected, not clamped.
func NewSearchQuery(query string, maxResults int) (SearchQuery, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return SearchQuery{}, ErrEmptyQuery
	}
	if maxResults < MinMaxResults || maxResults > MaxMaxResults {
		return SearchQuery{}, ErrMaxResultsOutOfRange
	}
	return SearchQuery{Query: q, MaxResults: maxResults}, nil
}

// CacheKey derives the cache key for the query.
// Format: search:v1:{maxResults}:{sha256(normalized query)}
func (q SearchQuery) CacheKey() string {
	sum := sha256.Sum256([]byte(normalizeQuery(q.Query)))
	return fmt.Sprintf("%s%d:%s", cacheKeyPrefix, q.MaxResults, hex.EncodeToString(sum[:]))
}

// normalizeQuery lower-cases the query and collapses whitespace runs.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
