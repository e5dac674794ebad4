package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ourcircle_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ReactionsTotal counts like/dislike actions by target and kind.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ourcircle_reactions_total",
		Help: "Total number of like/dislike actions",
	}, []string{"target", "kind"})

	// ReportsCreated counts abuse reports filed against posts.
	ReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ourcircle_reports_created_total",
		Help: "Total number of abuse reports filed",
	})

	// ReportsResolved counts reports resolved by admins.
	ReportsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ourcircle_reports_resolved_total",
		Help: "Total number of abuse reports resolved",
	})

	// GeocoderFallbacks counts reverse-geocoding failures that degraded to the
	// raw coordinate string.
	GeocoderFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ourcircle_geocoder_fallbacks_total",
		Help: "Total number of reverse-geocoding lookups that fell back to raw coordinates",
	})

	// UpstreamRequestLatency records latency of external collaborator calls.
	UpstreamRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ourcircle_upstream_request_latency_seconds",
		Help:    "External collaborator request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "outcome"})
)
