package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/catalog"
	"github.com/noah-isme/school-portal/internal/fallback"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/remote"
	"github.com/noah-isme/school-portal/internal/resource"
)

// ResourceLoader is the type-erased view of a resource service used by background
// refresh and the operations dashboard.
type ResourceLoader interface {
	Name() string
	Load(ctx context.Context) resource.LoadResult
	Status() resource.Status
}

// Portal groups the resource services the gateway serves.
type Portal struct {
	Students     *resource.Service[models.Student]
	Teachers     *resource.Service[models.Teacher]
	Classes      *resource.Service[models.Class]
	Attendance   *resource.Service[models.AttendanceRecord]
	Assignments  *resource.Service[models.Assignment]
	Events       *resource.Service[models.Event]
	Applications *resource.Service[models.Application]
}

// PortalParams groups constructor dependencies.
type PortalParams struct {
	Upstream remote.Config
	Backend  fallback.Backend
	// Applications replaces the REST client for admission applications, e.g. with the
	// MongoDB repository.
	Applications resource.Remote[models.Application]
	Metrics      *MetricsService
	Logger       *zap.Logger
	Strict       bool
	Clock        catalog.Clock
}

// NewPortal wires every resource service against the upstream backend and the fallback
// backend.
func NewPortal(p PortalParams) *Portal {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Backend == nil {
		p.Backend = fallback.NewMemory()
	}
	p.Upstream.Logger = p.Logger
	p.Upstream.Observer = p.Metrics

	opts := []resource.Option{
		resource.WithLogger(p.Logger),
		resource.WithValidator(resource.NewValidator()),
		resource.WithStrictClientErrors(p.Strict),
		resource.WithObserver(p.Metrics),
	}
	if p.Clock != nil {
		opts = append(opts, resource.WithClock(p.Clock))
	}

	return &Portal{
		Students:     newResourceService(catalog.StudentSchema(), nil, p, opts),
		Teachers:     newResourceService(catalog.TeacherSchema(), nil, p, opts),
		Classes:      newResourceService(catalog.ClassSchema(), nil, p, opts),
		Attendance:   newResourceService(catalog.AttendanceSchema(), nil, p, opts),
		Assignments:  newResourceService(catalog.AssignmentSchema(p.Clock), nil, p, opts),
		Events:       newResourceService(catalog.EventSchema(p.Clock), nil, p, opts),
		Applications: newResourceService(catalog.ApplicationSchema(), p.Applications, p, opts),
	}
}

func newResourceService[T resource.Entity[T]](schema resource.Schema[T], rem resource.Remote[T], p PortalParams, opts []resource.Option) *resource.Service[T] {
	if rem == nil {
		rem = remote.NewClient[T](schema.Name, p.Upstream)
	}
	snapshot := fallback.NewSnapshot[T](schema.Name, p.Backend, p.Logger, p.Metrics)
	return resource.NewService(schema, rem, snapshot, opts...)
}

// Loaders lists every resource service in dashboard order.
func (p *Portal) Loaders() []ResourceLoader {
	return []ResourceLoader{
		p.Students,
		p.Teachers,
		p.Classes,
		p.Attendance,
		p.Assignments,
		p.Events,
		p.Applications,
	}
}

// Statuses reports the store state of every resource.
func (p *Portal) Statuses() []resource.Status {
	loaders := p.Loaders()
	statuses := make([]resource.Status, 0, len(loaders))
	for _, l := range loaders {
		statuses = append(statuses, l.Status())
	}
	return statuses
}
