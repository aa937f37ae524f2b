package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal/internal/resource"
	"github.com/noah-isme/school-portal/internal/service"
)

type storeStatuses interface {
	Statuses() []resource.Status
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	stores  storeStatuses
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, stores storeStatuses) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, stores: stores}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 200 once every store has been loaded at least once, from the backend or
// from its fallback snapshot.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.stores == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	statuses := h.stores.Statuses()
	pending := make([]string, 0)
	for _, st := range statuses {
		if st.Source == resource.SourceNone {
			pending = append(pending, st.Resource)
		}
	}
	if len(pending) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading", "pending": pending})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "stores": statuses})
}
