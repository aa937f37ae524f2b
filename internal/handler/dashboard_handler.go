package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal/internal/dto"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
	"github.com/noah-isme/school-portal/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) dto.DashboardResponse
	System() dto.SystemSnapshot
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Admin dashboard summary across every resource
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary := h.service.Summary(c.Request.Context())
	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{
		"degraded":           summary.Degraded,
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// System godoc
// @Summary Gateway metrics and store states
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/system [get]
func (h *DashboardHandler) System(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.service.System(), nil)
}
