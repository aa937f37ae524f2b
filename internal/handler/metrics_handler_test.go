package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-portal/internal/resource"
	"github.com/noah-isme/school-portal/internal/service"
)

type fixedStatuses []resource.Status

func (f fixedStatuses) Statuses() []resource.Status { return f }

func TestReadyWaitsForEveryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name     string
		statuses fixedStatuses
		want     int
	}{
		{"loading", fixedStatuses{{Resource: "students", Source: resource.SourceRemote}, {Resource: "events"}}, http.StatusServiceUnavailable},
		{"served from cache", fixedStatuses{{Resource: "students", Source: resource.SourceRemote}, {Resource: "events", Source: resource.SourceCache}}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewMetricsHandler(nil, tc.statuses)
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

			handler.Ready(c)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.ObserveRefresh("students", "remote")
	handler := NewMetricsHandler(metrics, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)

	handler.Prometheus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resource_refreshes_total")
}

func TestPrometheusWithoutMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)

	handler.Prometheus(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
