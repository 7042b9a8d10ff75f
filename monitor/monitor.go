package monitor

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wfunc/galaxyserver/logger"
)

type Metrics struct {
	OnlinePlayers prometheus.Gauge
	QueuedPlayers prometheus.Gauge
	ActiveRooms   prometheus.Gauge
	Actions       *prometheus.CounterVec
	ApplyLatency  prometheus.Histogram
	ArchiveDrops  prometheus.Counter
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of connected clients",
		}),
		QueuedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queued_players",
			Help:      "Number of clients waiting for a session",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of active rooms",
		}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Submitted actions by event kind and outcome",
		}, []string{"kind", "outcome"}),
		ApplyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_latency_seconds",
			Help:      "Time spent applying one action, lock wait included",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		ArchiveDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_dropped_jobs_total",
			Help:      "Audit jobs discarded because the archive queue was full",
		}),
	}

	reg.MustRegister(
		m.OnlinePlayers,
		m.QueuedPlayers,
		m.ActiveRooms,
		m.Actions,
		m.ApplyLatency,
		m.ArchiveDrops,
	)

	return m
}

type Monitor struct {
	metrics     *Metrics
	gatherer    prometheus.Gatherer
	startTime   time.Time
	actionCount atomic.Int64

	mutex  sync.Mutex
	server *http.Server
}

// NewMonitor registers its metrics on a private registry, so several
// monitors can coexist in one process.
func NewMonitor(namespace string) *Monitor {
	reg := prometheus.NewRegistry()
	return &Monitor{
		metrics:   NewMetrics(namespace, reg),
		gatherer:  reg,
		startTime: time.Now(),
	}
}

var publishOnce sync.Once

// Handler serves /metrics and the expvar page at /debug/vars.
func (m *Monitor) Handler() http.Handler {
	publishOnce.Do(func() {
		expvar.Publish("uptime", expvar.Func(func() interface{} {
			return time.Since(m.startTime).Seconds()
		}))
		expvar.Publish("actions", expvar.Func(func() interface{} {
			return m.actionCount.Load()
		}))
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())
	return mux
}

func (m *Monitor) StartServer(addr string) {
	srv := &http.Server{Addr: addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
	m.mutex.Lock()
	m.server = srv
	m.mutex.Unlock()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorw("Metrics server stopped", "addr", addr, "error", err)
		}
	}()
	logger.Log.Infow("Metrics server started", "addr", addr)
}

func (m *Monitor) Shutdown(ctx context.Context) error {
	m.mutex.Lock()
	srv := m.server
	m.mutex.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (m *Monitor) SetOnlinePlayers(count int) {
	m.metrics.OnlinePlayers.Set(float64(count))
}

func (m *Monitor) SetQueuedPlayers(count int) {
	m.metrics.QueuedPlayers.Set(float64(count))
}

func (m *Monitor) SetActiveRooms(count int) {
	m.metrics.ActiveRooms.Set(float64(count))
}

func (m *Monitor) ObserveAction(kind, outcome string, elapsed time.Duration) {
	m.metrics.Actions.WithLabelValues(kind, outcome).Inc()
	m.metrics.ApplyLatency.Observe(elapsed.Seconds())
	m.actionCount.Add(1)
}

func (m *Monitor) ObserveArchiveDrop() {
	m.metrics.ArchiveDrops.Inc()
}
