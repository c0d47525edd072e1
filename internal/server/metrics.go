package server

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/stepwise/pkg/observability"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepwise_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stepwise_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepwise_sessions_created_total",
		Help: "Sessions created by algorithm",
	}, []string{"algorithm"})

	sessionSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepwise_session_steps_total",
		Help: "Session next, prev and reset operations",
	}, []string{"algorithm", "action"})

	sessionReplayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stepwise_session_replay_duration_seconds",
		Help:    "Time spent rebuilding a controller from a stored session",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"algorithm"})

	sessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepwise_sessions_ended_total",
		Help: "Sessions removed, by reason",
	}, []string{"reason"})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stepwise_render_duration_seconds",
		Help:    "Frame render latency by format and view",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"format", "view"})

	renderErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepwise_render_errors_total",
		Help: "Failed renders by format and view",
	}, []string{"format", "view"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepwise_cache_requests_total",
		Help: "Cache lookups by key type and result",
	}, []string{"key_type", "result"})

	cacheWrittenBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stepwise_cache_written_bytes_total",
		Help: "Bytes written to the cache by key type",
	}, []string{"key_type"})
)

// -----------------------------------------------------------------------------
// Hooks
// -----------------------------------------------------------------------------

// promHooks records observability events as Prometheus metrics.
type promHooks struct{}

var (
	_ observability.SessionHooks = promHooks{}
	_ observability.RenderHooks  = promHooks{}
	_ observability.CacheHooks   = promHooks{}
)

func (promHooks) OnCreate(_ context.Context, algorithm string) {
	sessionsCreated.WithLabelValues(algorithm).Inc()
}

func (promHooks) OnStep(_ context.Context, algorithm, action string, _ int) {
	sessionSteps.WithLabelValues(algorithm, action).Inc()
}

func (promHooks) OnReplay(_ context.Context, algorithm string, _ int, d time.Duration) {
	sessionReplayDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (promHooks) OnDelete(context.Context)  { sessionsEnded.WithLabelValues("deleted").Inc() }
func (promHooks) OnExpired(context.Context) { sessionsEnded.WithLabelValues("expired").Inc() }

func (promHooks) OnRender(_ context.Context, format, view string, _ int, d time.Duration, err error) {
	if err != nil {
		renderErrors.WithLabelValues(format, view).Inc()
		return
	}
	renderDuration.WithLabelValues(format, view).Observe(d.Seconds())
}

func (promHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (promHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (promHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	cacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

var registerOnce sync.Once

// RegisterMetrics installs the Prometheus hooks into the observability
// registry. It is safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		h := promHooks{}
		observability.SetSessionHooks(h)
		observability.SetRenderHooks(h)
		observability.SetCacheHooks(h)
	})
}
