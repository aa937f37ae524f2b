package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshotCounts(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/students", http.StatusOK, 20*time.Millisecond)
	m.ObserveUpstream("students", "list", "ok", 10*time.Millisecond)
	m.ObserveUpstream("students", "list", "error", 30*time.Millisecond)
	m.ObserveMutation("students", "create", true)
	m.ObserveMutation("students", "update", false)
	m.ObserveCacheFailure("students", "write")
	m.ObserveRefresh("students", "remote")

	snap := m.Snapshot()

	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.InDelta(t, 20, snap.AverageRequestDurationMs, 0.01)
	assert.Equal(t, uint64(2), snap.UpstreamCalls)
	assert.Equal(t, uint64(1), snap.UpstreamFailures)
	assert.InDelta(t, 20, snap.AverageUpstreamDurationMs, 0.01)
	assert.Equal(t, uint64(2), snap.MutationsTotal)
	assert.Equal(t, uint64(1), snap.DegradedMutations)
	assert.Equal(t, uint64(1), snap.CacheFailures)
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveMutation("events", "delete", true)
	rec := httptest.NewRecorder()

	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `resource_degraded_mutations_total{op="delete",resource="events"} 1`)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveMutation("events", "delete", true)
	m.ObserveRefresh("events", "cache")

	assert.NotPanics(t, func() { _ = m.Snapshot() })
}
