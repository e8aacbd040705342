package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linguist_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "route", "status"})

	// ProviderCalls counts provider invocations by provider and outcome kind.
	// Outcome is "ok" or an error kind such as "network" or "cancelled".
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linguist_provider_calls_total",
		Help: "Provider invocations by outcome.",
	}, []string{"provider", "outcome"})

	// ProviderDuration tracks provider call latency.
	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linguist_provider_duration_seconds",
		Help:    "Time spent in a single provider call.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"provider"})

	// Runs counts orchestrator calls by kind ("run" or "compare") and result.
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linguist_runs_total",
		Help: "Single and compare runs by result.",
	}, []string{"kind", "result"})

	// InputChars tracks the distribution of input text lengths.
	InputChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "linguist_input_chars",
		Help:    "Number of characters in task input text.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// ProviderCredentialed reports whether each provider has a usable credential.
	ProviderCredentialed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "linguist_provider_credentialed",
		Help: "Whether a provider has a usable credential (1) or not (0).",
	}, []string{"provider"})
)
