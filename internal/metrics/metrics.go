package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SuggestRuns counts roadmap suggestion runs by outcome
	SuggestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "suggest_runs_total", Help: "Roadmap suggestion runs by outcome."},
		[]string{"status"},
	)
	// SuggestDuration tracks end-to-end suggestion run time in seconds
	SuggestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "suggest_run_duration_seconds", Help: "Suggestion run duration in seconds.", Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120}},
	)

	// OracleLookups counts travel-time oracle lookups by outcome
	OracleLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "travel_time_lookups_total", Help: "Travel-time oracle lookups by outcome."},
		[]string{"outcome"},
	)
)

// RegisterDefault registers every collector onto the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SuggestRuns)
		Registry.MustRegister(SuggestDuration)
		Registry.MustRegister(OracleLookups)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
