package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "rag_query_duration_seconds",
	Help:    "End-to-end time of one query through the pipeline.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"mode", "status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var embeddingCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "embedding_cache_lookups_total",
	Help: "Embedding cache lookups by result.",
}, []string{"result"})

var retrievalTierServed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "retrieval_tier_served_total",
	Help: "Which fallback tier produced the returned results.",
}, []string{"mode", "tier"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureQueryMetrics(mode string, status string, timeElapsed time.Duration) {
	queryDuration.WithLabelValues(mode, status).Observe(timeElapsed.Seconds())
}

func CountEmbeddingCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	embeddingCacheLookups.WithLabelValues(result).Inc()
}

func CountRetrievalTier(mode string, tier int) {
	retrievalTierServed.WithLabelValues(mode, strconv.Itoa(tier)).Inc()
}
