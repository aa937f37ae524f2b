package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
	"github.com/noah-isme/school-portal/internal/service"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
	"github.com/noah-isme/school-portal/pkg/export"
	"github.com/noah-isme/school-portal/pkg/response"
)

type refresher interface {
	Refresh(ctx context.Context, name string) (resource.LoadResult, error)
}

type exporter interface {
	Render(resourceName, format string, data export.Dataset) (*service.ExportResult, error)
}

// Routes carries the middleware chains guarding each kind of endpoint. Create falls
// back to Write when empty.
type Routes struct {
	Read   gin.HandlersChain
	Write  gin.HandlersChain
	Create gin.HandlersChain
}

// ResourceHandler exposes the CRUD surface of one resource.
type ResourceHandler[T resource.Entity[T]] struct {
	svc       *resource.Service[T]
	refresher refresher
	exports   exporter
	logger    *zap.Logger
}

// NewResourceHandler constructs a ResourceHandler. A nil refresher reloads through the
// service directly.
func NewResourceHandler[T resource.Entity[T]](svc *resource.Service[T], refresher refresher, exports exporter, logger *zap.Logger) *ResourceHandler[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceHandler[T]{svc: svc, refresher: refresher, exports: exports, logger: logger}
}

// Register mounts the resource endpoints under /<name>.
func (h *ResourceHandler[T]) Register(rg *gin.RouterGroup, routes Routes) {
	if len(routes.Create) == 0 {
		routes.Create = routes.Write
	}
	g := rg.Group("/" + h.svc.Name())
	g.GET("", chain(routes.Read, h.List)...)
	g.GET("/stats", chain(routes.Read, h.Stats)...)
	g.GET("/export", chain(routes.Read, h.Export)...)
	g.POST("/refresh", chain(routes.Write, h.Refresh)...)
	g.GET("/:id", chain(routes.Read, h.Get)...)
	g.POST("", chain(routes.Create, h.Create)...)
	g.PUT("/:id", chain(routes.Write, h.Update)...)
	g.DELETE("/:id", chain(routes.Write, h.Delete)...)
}

func chain(mw gin.HandlersChain, h gin.HandlerFunc) gin.HandlersChain {
	out := make(gin.HandlersChain, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

// List godoc
// @Summary List records of a resource
// @Tags Resources
// @Produce json
// @Param resource path string true "Resource name"
// @Param search query string false "Case-insensitive search"
// @Param status query string false "Structured filter; 'all' disables it"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /{resource} [get]
func (h *ResourceHandler[T]) List(c *gin.Context) {
	page, size, err := pageFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := h.svc.View(criteriaFromQuery(c, h.svc.Schema().FilterNames()))
	status := h.svc.Status()

	var pagination *models.Pagination
	if size > 0 {
		pagination = &models.Pagination{Page: page, PageSize: size, TotalCount: len(items)}
		items = resource.Page(items, page, size)
	}
	response.JSON(c, http.StatusOK, items, pagination, map[string]interface{}{
		"stats":  h.svc.Summary(),
		"source": status.Source,
		"count":  status.Count,
	})
}

// Stats godoc
// @Summary Summary statistics over the full collection
// @Tags Resources
// @Produce json
// @Param resource path string true "Resource name"
// @Success 200 {object} response.Envelope
// @Router /{resource}/stats [get]
func (h *ResourceHandler[T]) Stats(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.svc.Summary(), nil, map[string]interface{}{"source": h.svc.Status().Source})
}

// Get godoc
// @Summary Get one record
// @Tags Resources
// @Produce json
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /{resource}/{id} [get]
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	record, ok := h.svc.Get(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, h.svc.Label()+" not found"))
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Create godoc
// @Summary Create a record
// @Tags Resources
// @Accept json
// @Produce json
// @Param resource path string true "Resource name"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /{resource} [post]
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		invalidPayload(c, err)
		return
	}
	outcome, err := h.svc.Create(c.Request.Context(), record)
	if err != nil {
		writeError(c, err)
		return
	}
	h.logMutation(c, outcome)
	response.Created(c, outcome.Record, outcomeMeta(outcome))
}

// Update godoc
// @Summary Update a record
// @Tags Resources
// @Accept json
// @Produce json
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{resource}/{id} [put]
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	var record T
	if err := c.ShouldBindJSON(&record); err != nil {
		invalidPayload(c, err)
		return
	}
	outcome, err := h.svc.Update(c.Request.Context(), c.Param("id"), record)
	if err != nil {
		writeError(c, err)
		return
	}
	h.logMutation(c, outcome)
	response.JSON(c, http.StatusOK, outcome.Record, nil, outcomeMeta(outcome))
}

// Delete godoc
// @Summary Delete a record
// @Tags Resources
// @Produce json
// @Param resource path string true "Resource name"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /{resource}/{id} [delete]
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	outcome, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	h.logMutation(c, outcome)
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id")}, nil, outcomeMeta(outcome))
}

// Refresh godoc
// @Summary Reload the collection from the backend
// @Tags Resources
// @Produce json
// @Param resource path string true "Resource name"
// @Success 200 {object} response.Envelope
// @Router /{resource}/refresh [post]
func (h *ResourceHandler[T]) Refresh(c *gin.Context) {
	var res resource.LoadResult
	if h.refresher != nil {
		var err error
		res, err = h.refresher.Refresh(c.Request.Context(), h.svc.Name())
		if err != nil {
			response.Error(c, err)
			return
		}
	} else {
		res = h.svc.Load(c.Request.Context())
	}
	meta := map[string]interface{}{"degraded": res.Err != nil}
	if res.Err != nil {
		meta["error"] = res.Err.Error()
	}
	response.JSON(c, http.StatusOK, h.svc.Status(), nil, meta)
}

// Export godoc
// @Summary Export the filtered view
// @Tags Resources
// @Produce text/csv
// @Produce application/pdf
// @Param resource path string true "Resource name"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Router /{resource}/export [get]
func (h *ResourceHandler[T]) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrServiceUnavailable)
		return
	}
	items := h.svc.View(criteriaFromQuery(c, h.svc.Schema().FilterNames()))
	data := service.BuildDataset(h.svc.Label()+" export", h.svc.Schema().Columns, items)
	result, err := h.exports.Render(h.svc.Name(), c.Query("format"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, result.ContentType, result.Filename, result.Payload)
}

func (h *ResourceHandler[T]) logMutation(c *gin.Context, outcome resource.Outcome[T]) {
	fields := []zap.Field{
		zap.String("resource", h.svc.Name()),
		zap.String("op", string(outcome.Op)),
		zap.String("id", outcome.Record.GetID()),
		zap.Bool("degraded", outcome.Degraded),
	}
	if claims := claimsFromContext(c); claims != nil {
		fields = append(fields, zap.String("user_id", claims.UserID))
	}
	h.logger.Info("mutation applied", fields...)
}

func outcomeMeta[T any](outcome resource.Outcome[T]) map[string]interface{} {
	return map[string]interface{}{
		"degraded": outcome.Degraded,
		"notice":   outcome.Notice,
	}
}
