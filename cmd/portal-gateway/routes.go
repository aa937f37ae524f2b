package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/catalog"
	"github.com/noah-isme/school-portal/internal/handler"
	"github.com/noah-isme/school-portal/internal/middleware"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/service"
)

var (
	admins   = []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin}
	staff    = []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher}
	everyone = []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher, models.RoleStudent}
)

type accessPolicy struct {
	read       []models.UserRole
	write      []models.UserRole
	publicPost bool
}

// policies maps each resource to the roles allowed to read and mutate it.
var policies = map[string]accessPolicy{
	catalog.Students:     {read: staff, write: admins},
	catalog.Teachers:     {read: staff, write: admins},
	catalog.Classes:      {read: everyone, write: admins},
	catalog.Attendance:   {read: everyone, write: staff},
	catalog.Assignments:  {read: everyone, write: staff},
	catalog.Events:       {read: everyone, write: staff},
	catalog.Applications: {read: staff, write: admins, publicPost: true},
}

type routeDeps struct {
	Prefix    string
	Portal    *service.Portal
	Refresh   *service.RefreshService
	Exports   *service.ExportService
	Dashboard *service.DashboardService
	Metrics   *service.MetricsService
	// Verifier is nil when authentication is disabled.
	Verifier middleware.TokenVerifier
	Logger   *zap.Logger
}

func (d routeDeps) routes(name string) handler.Routes {
	if d.Verifier == nil {
		return handler.Routes{}
	}
	policy := policies[name]
	routes := handler.Routes{
		Read:  gin.HandlersChain{middleware.JWT(d.Verifier), middleware.RequireRoles(policy.read...)},
		Write: gin.HandlersChain{middleware.JWT(d.Verifier), middleware.RequireRoles(policy.write...)},
	}
	if policy.publicPost {
		routes.Create = gin.HandlersChain{middleware.OptionalJWT(d.Verifier)}
	}
	return routes
}

func (d routeDeps) guard(roles ...models.UserRole) gin.HandlersChain {
	if d.Verifier == nil {
		return nil
	}
	return gin.HandlersChain{middleware.JWT(d.Verifier), middleware.RequireRoles(roles...)}
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	metricsHandler := handler.NewMetricsHandler(d.Metrics, d.Portal)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(d.Prefix)
	p := d.Portal
	handler.NewResourceHandler(p.Students, d.Refresh, d.Exports, d.Logger).Register(api, d.routes(catalog.Students))
	handler.NewResourceHandler(p.Teachers, d.Refresh, d.Exports, d.Logger).Register(api, d.routes(catalog.Teachers))
	handler.NewResourceHandler(p.Classes, d.Refresh, d.Exports, d.Logger).Register(api, d.routes(catalog.Classes))
	handler.NewResourceHandler(p.Attendance, d.Refresh, d.Exports, d.Logger).Register(api, d.routes(catalog.Attendance))
	handler.NewResourceHandler(p.Assignments, d.Refresh, d.Exports, d.Logger).Register(api, d.routes(catalog.Assignments))
	handler.NewResourceHandler(p.Events, d.Refresh, d.Exports, d.Logger).Register(api, d.routes(catalog.Events))
	handler.NewResourceHandler(p.Applications, d.Refresh, d.Exports, d.Logger).Register(api, d.routes(catalog.Applications))

	dashboard := handler.NewDashboardHandler(d.Dashboard)
	api.GET("/dashboard", append(d.guard(staff...), dashboard.Summary)...)
	api.GET("/dashboard/system", append(d.guard(admins...), dashboard.System)...)
}
