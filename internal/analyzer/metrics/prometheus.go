package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SourceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_source_fetches_total",
			Help: "Total number of source retrievals",
		},
		[]string{"source", "status"}, // status: success|error|timeout
	)

	SourceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_source_fetch_duration_seconds",
			Help:    "Source retrieval duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	PostsCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_posts_collected_total",
			Help: "Posts kept after parsing and score filtering",
		},
		[]string{"source"},
	)

	RecordsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_records_rejected_total",
			Help: "Raw records dropped before aggregation",
		},
		[]string{"source", "reason"}, // reason: parse|min_score
	)

	Recommendations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_recommendations_total",
			Help: "Analyses completed by verdict",
		},
		[]string{"recommendation"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SourceFetches,
			SourceFetchDuration,
			PostsCollected,
			RecordsRejected,
			Recommendations,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFetch records one source retrieval.
func RecordFetch(source, status string, duration time.Duration) {
	SourceFetches.WithLabelValues(source, status).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}
