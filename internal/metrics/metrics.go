package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the feed API
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec

	// Feed engagement
	PostsCreated     prometheus.Counter
	LikesToggled     *prometheus.CounterVec
	CommentsAdded    prometheus.Counter
	CounterDriftRows *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all metrics once per process
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_requests_total",
					Help: "Total number of handled feed requests",
				},
				[]string{"method", "action", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_request_duration_seconds",
					Help:    "Feed request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"action"},
			),
			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_errors_total",
					Help: "Total number of failed feed requests by error code",
				},
				[]string{"action", "code"},
			),
			PostsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_posts_created_total",
					Help: "Total number of posts created",
				},
			),
			LikesToggled: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_likes_toggled_total",
					Help: "Total number of like toggles by resulting state",
				},
				[]string{"liked"},
			),
			CommentsAdded: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_comments_added_total",
					Help: "Total number of comments added",
				},
			),
			CounterDriftRows: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_counter_drift_rows_total",
					Help: "Posts whose denormalized counters were repaired by reconcile",
				},
				[]string{"counter"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it on first use
func Get() *Metrics {
	return Initialize()
}
