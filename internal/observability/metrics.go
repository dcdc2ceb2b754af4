package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	generationOutcomes    *prometheus.CounterVec
	generatedQuestions    prometheus.Histogram
	bankCacheLookupsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		generationOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "generation_outcomes_total",
			Help: "Question generation outcomes by kind (success, caller, provider, decode, shape).",
		}, []string{"kind"})

		generatedQuestions = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "generation_questions_returned",
			Help:    "Number of questions returned by successful generations.",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		})

		bankCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_cache_lookups_total",
			Help: "Bank list cache lookups by result (hit, miss).",
		}, []string{"result"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, generationOutcomes, generatedQuestions, bankCacheLookupsTotal)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// GenerationOutcomes exposes the counter of generation outcomes.
func GenerationOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return generationOutcomes
}

// GeneratedQuestions exposes the histogram of question counts.
func GeneratedQuestions() prometheus.Histogram {
	RegisterMetrics()
	return generatedQuestions
}

// BankCacheLookups exposes the bank cache hit/miss counter.
func BankCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return bankCacheLookupsTotal
}
