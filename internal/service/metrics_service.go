package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/school-portal/internal/dto"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	mutations        *prometheus.CounterVec
	degraded         *prometheus.CounterVec
	cacheFailures    *prometheus.CounterVec
	refreshes        *prometheus.CounterVec

	requestCount          uint64
	requestDurationTotal  uint64
	upstreamCount         uint64
	upstreamFailureCount  uint64
	upstreamDurationTotal uint64
	mutationCount         uint64
	degradedCount         uint64
	cacheFailureCount     uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of calls to the school backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "op", "outcome"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_mutations_total",
		Help: "Mutations applied per resource",
	}, []string{"resource", "op"})

	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_degraded_mutations_total",
		Help: "Mutations applied locally because the backend was unreachable",
	}, []string{"resource", "op"})

	cacheFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fallback_cache_failures_total",
		Help: "Failed fallback snapshot reads and writes",
	}, []string{"resource", "op"})

	refreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_refreshes_total",
		Help: "Collection reloads by source",
	}, []string{"resource", "source"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, mutations, degraded, cacheFailures, refreshes, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		mutations:        mutations,
		degraded:         degraded,
		cacheFailures:    cacheFailures,
		refreshes:        refreshes,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveUpstream records one call to the school backend.
func (m *MetricsService) ObserveUpstream(resource, op, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(resource, op, outcome).Observe(duration.Seconds())
	atomic.AddUint64(&m.upstreamCount, 1)
	atomic.AddUint64(&m.upstreamDurationTotal, uint64(duration.Nanoseconds()))
	if outcome != "ok" {
		atomic.AddUint64(&m.upstreamFailureCount, 1)
	}
}

// ObserveMutation counts a finished mutation and whether it was applied offline.
func (m *MetricsService) ObserveMutation(resource, op string, degraded bool) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(resource, op).Inc()
	atomic.AddUint64(&m.mutationCount, 1)
	if degraded {
		m.degraded.WithLabelValues(resource, op).Inc()
		atomic.AddUint64(&m.degradedCount, 1)
	}
}

// ObserveCacheFailure counts a failed snapshot read or write.
func (m *MetricsService) ObserveCacheFailure(resource, op string) {
	if m == nil {
		return
	}
	m.cacheFailures.WithLabelValues(resource, op).Inc()
	atomic.AddUint64(&m.cacheFailureCount, 1)
}

// ObserveRefresh counts a collection reload.
func (m *MetricsService) ObserveRefresh(resource, source string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(resource, source).Inc()
}

// Snapshot returns aggregated metrics suitable for the operations dashboard.
func (m *MetricsService) Snapshot() dto.SystemMetrics {
	if m == nil {
		return dto.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	upstream := atomic.LoadUint64(&m.upstreamCount)
	upDuration := atomic.LoadUint64(&m.upstreamDurationTotal)

	return dto.SystemMetrics{
		RequestsTotal:             requests,
		AverageRequestDurationMs:  averageMs(reqDuration, requests),
		UpstreamCalls:             upstream,
		UpstreamFailures:          atomic.LoadUint64(&m.upstreamFailureCount),
		AverageUpstreamDurationMs: averageMs(upDuration, upstream),
		MutationsTotal:            atomic.LoadUint64(&m.mutationCount),
		DegradedMutations:         atomic.LoadUint64(&m.degradedCount),
		CacheFailures:             atomic.LoadUint64(&m.cacheFailureCount),
		Goroutines:                runtime.NumGoroutine(),
		GeneratedAt:               time.Now().UTC(),
	}
}

func averageMs(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
