package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marketplace"

var (
	// PageRenders counts page data loads by page and result ("ok", "not_found", "error").
	PageRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_renders_total",
		Help:      "Number of page data loads.",
	}, []string{"page", "result"})

	// PageCacheLookups counts output cache lookups by outcome ("fresh", "stale", "miss").
	PageCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_lookups_total",
		Help:      "Output cache lookups by outcome.",
	}, []string{"outcome"})

	// PageRegenerations counts background regenerations by result.
	PageRegenerations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_regenerations_total",
		Help:      "Background page regenerations.",
	}, []string{"result"})

	// BestEffortFailures counts secondary fetches that were dropped from a page.
	BestEffortFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "best_effort_failures_total",
		Help:      "Secondary page fetches replaced by an absent value.",
	}, []string{"fetch"})

	// ContractCalls counts contract facade calls by method and result.
	ContractCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contract_calls_total",
		Help:      "Contract facade calls.",
	}, []string{"method", "result"})

	// ContractCallDuration observes contract facade call latency.
	ContractCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "contract_call_duration_seconds",
		Help:      "Contract facade call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PageRenders,
			PageCacheLookups,
			PageRegenerations,
			BestEffortFailures,
			ContractCalls,
			ContractCallDuration,
		)
	})
}

// Result maps an error to a metric label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
