// Package metrics exposes Prometheus instrumentation for the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	MessagesSent        prometheus.Counter
	ActiveSubscriptions prometheus.Gauge
	RateLimited         prometheus.Counter
	QuestCompletions    *prometheus.CounterVec
	SnapshotWrites      prometheus.Counter
	SnapshotErrors      prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "lumen_chat_messages_sent_total",
			Help: "Chat messages appended to the log.",
		}),
		ActiveSubscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lumen_chat_subscriptions",
			Help: "Currently attached chat subscribers.",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "lumen_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		QuestCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lumen_quest_completions_total",
			Help: "Side-quest completions by category and difficulty.",
		}, []string{"category", "difficulty"}),
		SnapshotWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "lumen_snapshot_writes_total",
			Help: "Successful state snapshot flushes.",
		}),
		SnapshotErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "lumen_snapshot_errors_total",
			Help: "Failed state snapshot flushes.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
