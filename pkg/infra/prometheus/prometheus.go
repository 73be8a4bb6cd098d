package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "followermanager_requests_total",
			Help: "Total number of API requests processed",
		},
		[]string{"method", "route", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "followermanager_request_latency_ms",
			Help:    "API request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route"},
	)

	FollowersSynced = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "followermanager_followers_synced_total",
			Help: "Followers fetched from the platform and stored",
		},
	)

	FollowersAnalyzed = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "followermanager_followers_analyzed_total",
			Help: "Follower records run through the filter pipeline",
		},
	)

	BotClassifications = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "followermanager_bot_classifications_total",
			Help: "Bot scorer verdicts",
		},
		[]string{"result"}, // bot or human
	)

	FollowerRemovals = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "followermanager_follower_removals_total",
			Help: "Follower removal attempts by outcome",
		},
		[]string{"status"}, // removed or failed
	)

	RemovalBatchLatency = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "followermanager_removal_batch_latency_ms",
			Help:    "Time spent removing one batch of followers",
			Buckets: latencyBuckets,
		},
	)

	RetentionPurged = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "followermanager_retention_purged_total",
			Help: "Removal history rows deleted by the retention job",
		},
	)
)

type MetricsConfig struct {
	EnableLatency  bool // request latency histogram
	EnablePerRoute bool // label requests by route pattern instead of "all"
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:  true,
		EnablePerRoute: true,
	}
}

var Config = DefaultMetricsConfig()

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

// Gatherer exposes the private registry for the /metrics handler.
func Gatherer() prometheus.Gatherer {
	return registry
}

// BotVerdict maps a scorer decision to its label value.
func BotVerdict(isBot bool) string {
	if isBot {
		return "bot"
	}
	return "human"
}
