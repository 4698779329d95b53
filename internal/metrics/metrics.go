package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "improve_http_requests_total",
			Help: "Total number of HTTP requests handled, by route and status code",
		},
		[]string{"route", "code"},
	)
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "improve_llm_requests_total",
			Help: "Total number of upstream model calls",
		},
		[]string{"provider", "result"}, // result: ok, error
	)
	LLMLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "improve_llm_latency_seconds",
			Help:    "Latency of upstream model calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "improve_llm_tokens_total",
			Help: "Total number of tokens sent/received from the model provider",
		},
		[]string{"provider", "type"}, // type: prompt, completion, total
	)
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "improve_extractions_total",
			Help: "Replies parsed, by whether a code block and an explanation were found",
		},
		[]string{"code", "explanation"}, // "found" or "missing"
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewMetricsServer returns a server exposing /metrics on addr.
func NewMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{Addr: addr, Handler: mux}
}

// Present maps a found/missing condition to a label value.
func Present(found bool) string {
	if found {
		return "found"
	}
	return "missing"
}
