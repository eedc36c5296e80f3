// Package monitor exposes Prometheus metrics and expvar counters on a
// side HTTP listener.
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	OnlinePlayers   prometheus.Gauge
	ActiveTables    prometheus.Gauge
	EventsProcessed prometheus.Counter
	TickDuration    prometheus.Histogram
}

// NewMetrics builds the metric set on its own registry so independent
// instances (and tests) never collide.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of authenticated players online",
		}),
		ActiveTables: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_tables",
			Help:      "Number of live tables",
		}),
		EventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_processed_total",
			Help:      "Total client events processed",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one scheduler tick",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	m.Registry.MustRegister(
		m.OnlinePlayers,
		m.ActiveTables,
		m.EventsProcessed,
		m.TickDuration,
	)

	return m
}

type Monitor struct {
	metrics    *Metrics
	startTime  time.Time
	eventCount int64
	mutex      sync.Mutex
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.metrics.Registry, promhttp.HandlerOpts{}))

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("events", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.eventCount
	}))

	mux.Handle("/debug/vars", expvar.Handler())
	go http.ListenAndServe(addr, mux)
}

// Metrics exposes the underlying collectors for scrape handlers and
// test assertions.
func (m *Monitor) Metrics() *Metrics {
	return m.metrics
}

func (m *Monitor) IncOnlinePlayers() {
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetActiveTables(count int) {
	m.metrics.ActiveTables.Set(float64(count))
}

func (m *Monitor) IncEventsProcessed() {
	m.metrics.EventsProcessed.Inc()
	m.mutex.Lock()
	m.eventCount++
	m.mutex.Unlock()
}

func (m *Monitor) ObserveTickDuration(duration time.Duration) {
	m.metrics.TickDuration.Observe(duration.Seconds())
}
