package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	DepletionsTotal   *prometheus.CounterVec
	SyncRunsTotal     *prometheus.CounterVec
	SyncOrdersTotal   *prometheus.CounterVec
	WebhookItemsTotal *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DepletionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "depletions_total",
			Help:      "Sale line depletions by trigger source, kind and outcome.",
		}, []string{"source", "kind", "outcome"}),
		SyncRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "POS sync runs by final status.",
		}, []string{"status"}),
		SyncOrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_orders_total",
			Help:      "POS orders seen by sync runs, by outcome.",
		}, []string{"outcome"}),
		WebhookItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_items_total",
			Help:      "Webhook sale items by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.DepletionsTotal,
		m.SyncRunsTotal,
		m.SyncOrdersTotal,
		m.WebhookItemsTotal,
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveDepletion(source, kind, outcome string) {
	if m == nil {
		return
	}
	m.DepletionsTotal.WithLabelValues(source, kind, outcome).Inc()
}

func (m *Metrics) ObserveSyncRun(status string) {
	if m == nil {
		return
	}
	m.SyncRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSyncOrder(outcome string) {
	if m == nil {
		return
	}
	m.SyncOrdersTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveWebhookItem(outcome string) {
	if m == nil {
		return
	}
	m.WebhookItemsTotal.WithLabelValues(outcome).Inc()
}
