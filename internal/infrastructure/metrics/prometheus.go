// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ytsearch"

var (
	// CacheOperationsTotal tracks cache operations (get, set).
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success, error
	//   - cache_type: redis, memory
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks history store queries.
	// Labels:
	//   - query_type: select, insert
	//   - backend: postgres, sqlite
	//   - status: success, error
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of history store queries",
		},
		[]string{"query_type", "backend", "status"},
	)

	// PlatformRequestsTotal tracks calls to the video platform.
	// Labels:
	//   - operation: search, get_video
	//   - status: success, not_found, error
	PlatformRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "platform_requests_total",
			Help:      "Total number of video platform requests",
		},
		[]string{"operation", "status"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// HTTPRequestDuration tracks request latency by chi route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsTotal counts requests by chi route pattern.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache type constants.
const (
	CacheTypeRedis  = "redis"
	CacheTypeMemory = "memory"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
)

// History backend constants.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Platform operation constants.
const (
	PlatformOpSearch   = "search"
	PlatformOpGetVideo = "get_video"
)

// Shared success/error/not_found status constants.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// RecordCacheOp increments CacheOperationsTotal.
func RecordCacheOp(operation, status, cacheType string) {
	CacheOperationsTotal.WithLabelValues(operation, status, cacheType).Inc()
}

// RecordDBQuery increments DBQueriesTotal with a status derived from err.
func RecordDBQuery(queryType, backend string, err error) {
	DBQueriesTotal.WithLabelValues(queryType, backend, statusOf(err)).Inc()
}

// RecordPlatformRequest increments PlatformRequestsTotal.
func RecordPlatformRequest(operation, status string) {
	PlatformRequestsTotal.WithLabelValues(operation, status).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
