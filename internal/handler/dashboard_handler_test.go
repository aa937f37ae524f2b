package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/resource"
)

type fakeDashboardSrv struct {
	summary dto.DashboardResponse
	system  dto.SystemSnapshot
}

func (f *fakeDashboardSrv) Summary(context.Context) dto.DashboardResponse { return f.summary }

func (f *fakeDashboardSrv) System() dto.SystemSnapshot { return f.system }

func TestDashboardHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{summary: dto.DashboardResponse{
		Degraded: true,
		Students: dto.StudentStats{Total: 4, Active: 3, ActivePct: 75},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["degraded"])
	var data dto.DashboardResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, 75, data.Students.ActivePct)
}

func TestDashboardHandlerSystem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{system: dto.SystemSnapshot{
		Metrics: dto.SystemMetrics{MutationsTotal: 5},
		Stores:  []resource.Status{{Resource: "events", Source: resource.SourceCache}},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/system", nil)

	handler.System(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"cache"`)
}

func TestDashboardHandlerWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
