package llm

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testgen_llm_requests_total",
			Help: "Completion requests sent to the LLM provider.",
		},
		[]string{"provider", "model", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "testgen_llm_request_duration_seconds",
			Help:    "Latency of completion requests to the LLM provider.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		},
		[]string{"provider", "model"},
	)
)

func observe(provider, model string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		if upstream, ok := err.(*UpstreamError); ok && upstream.StatusCode != 0 {
			status = strconv.Itoa(upstream.StatusCode)
		}
	}
	requestsTotal.WithLabelValues(provider, model, status).Inc()
	requestDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
}
