package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedgraph_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FollowEvents counts follow graph mutations by action (follow, unfollow).
	FollowEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedgraph_follow_events_total",
		Help: "Total number of follow and unfollow operations",
	}, []string{"action"})

	// LikeToggles counts like toggles by resulting state (liked, unliked).
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedgraph_like_toggles_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"state"})

	// MessagesCreated counts created messages by kind (post, reply).
	MessagesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedgraph_messages_created_total",
		Help: "Total number of messages created",
	}, []string{"kind"})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedgraph_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
