// Package metrics exposes inventory, dashboard and product event metrics to Prometheus.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/abgdnv/producthub/pkg/messaging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "producthub"

// Metrics owns a private registry so that tests and multiple instances never collide.
type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_events_total",
		Help:      "Number of product mutations, by event subject",
	}, []string{"subject"})
	registry.MustRegister(events)

	return &Metrics{registry: registry, events: events}
}

// StatsFunc returns the current inventory summary.
type StatsFunc func(ctx context.Context) (*service.StatsDto, error)

// RegisterInventory exposes the inventory summary, computed on every scrape.
func (m *Metrics) RegisterInventory(stats StatsFunc, timeout time.Duration, logger *slog.Logger) {
	m.registry.MustRegister(newInventoryCollector(stats, timeout, logger))
}

// RegisterSessions exposes the number of open dashboard sessions.
func (m *Metrics) RegisterSessions(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dashboard_sessions_open",
		Help:      "Number of open dashboard sessions",
	}, func() float64 {
		return float64(count())
	}))
}

// Publisher returns a messaging.Publisher that counts product events.
func (m *Metrics) Publisher() messaging.Publisher {
	return eventCounter{events: m.events}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NewServer creates an HTTP server serving the metrics at path and /healthz.
func NewServer(addr, path string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type eventCounter struct {
	events *prometheus.CounterVec
}

func (c eventCounter) Publish(_ context.Context, event messaging.Event) error {
	c.events.WithLabelValues(event.Subject()).Inc()
	return nil
}
