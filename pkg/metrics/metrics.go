// Package metrics — прометеевские метрики бота на собственном реестре.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Исходы оценки актива.
const (
	OutcomeSignal       = "signal"
	OutcomeHold         = "hold"
	OutcomeSuppressed   = "suppressed"
	OutcomeInsufficient = "insufficient"
	OutcomeNoData       = "no_data"
	OutcomeFetchError   = "fetch_error"
	OutcomePanic        = "panic"
)

var (
	Registry = prometheus.NewRegistry()

	PassesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signalbot_passes_total",
		Help: "Completed watchlist passes across all runners.",
	})

	PassDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "signalbot_pass_duration_seconds",
		Help:    "Duration of one watchlist pass.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})

	Evaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signalbot_evaluations_total",
		Help: "Per-asset evaluations by outcome.",
	}, []string{"outcome"})

	SignalsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signalbot_signals_emitted_total",
		Help: "Emitted alerts by side.",
	}, []string{"side"})

	NotificationsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signalbot_notifications_failed_total",
		Help: "Alerts that could not be delivered to the chat.",
	})

	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "signalbot_fetch_duration_seconds",
		Help:    "Latency of market data requests.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		PassesTotal,
		PassDuration,
		Evaluations,
		SignalsEmitted,
		NotificationsFailed,
		FetchDuration,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
