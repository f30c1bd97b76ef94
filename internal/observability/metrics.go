// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// NotificationsCreated counts notification records created by verb.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_notifications_created_total",
		Help: "Total number of notifications created by verb",
	}, []string{"verb"})

	// LikeOperations counts like/unlike operations by outcome.
	LikeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_like_operations_total",
		Help: "Total like/unlike operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// CacheHits counts cache-aside hits and misses by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookclub_cache_requests_total",
		Help: "Cache-aside lookups by key prefix and result",
	}, []string{"prefix", "result"})
)
