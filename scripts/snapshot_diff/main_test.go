package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/catalog"
	"github.com/noah-isme/school-portal/internal/fallback"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/remote"
)

func TestDiffReportsDrift(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"e1","title":"Sports Day","status":"upcoming"},{"id":"e3","title":"Exam","status":"upcoming"}]}`))
	}))
	defer server.Close()
	backend := fallback.NewMemory()
	require.NoError(t, backend.Store(context.Background(), catalog.Events,
		[]byte(`[{"id":"e1","title":"Sports Day","status":"cancelled"},{"id":"1700000000000","title":"Offline","status":"upcoming"}]`)))

	rep := diff[models.Event](context.Background(), catalog.Events, remote.Config{BaseURL: server.URL, Timeout: time.Second}, backend)

	require.NoError(t, rep.Error)
	assert.Equal(t, []string{"1700000000000"}, rep.SnapshotOnly)
	assert.Equal(t, []string{"e3"}, rep.BackendOnly)
	assert.Equal(t, []string{"e1"}, rep.Changed)
	assert.False(t, rep.clean())
}

func TestDiffBackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	rep := diff[models.Event](context.Background(), catalog.Events, remote.Config{BaseURL: server.URL, Timeout: time.Second}, fallback.NewMemory())

	assert.Error(t, rep.Error)
	assert.Equal(t, 1, printReport([]report{rep}))
}
