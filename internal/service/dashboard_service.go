package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/catalog"
	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	UpcomingEventsLimit     int
	RecentApplicationsLimit int
}

// DashboardService composes the admin dashboard from every resource store.
type DashboardService struct {
	portal  *Portal
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
	cfg     DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(portal *Portal, metrics *MetricsService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.UpcomingEventsLimit <= 0 {
		cfg.UpcomingEventsLimit = 5
	}
	if cfg.RecentApplicationsLimit <= 0 {
		cfg.RecentApplicationsLimit = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{portal: portal, metrics: metrics, logger: logger, now: time.Now, cfg: cfg}
}

// Summary aggregates statistics over the full collections. It never fails: stores that
// could not reach the backend contribute their fallback data and mark the payload
// degraded.
func (s *DashboardService) Summary(ctx context.Context) dto.DashboardResponse {
	now := s.now()
	today := models.DateOf(now)
	p := s.portal

	events := p.Events.All()
	applications := p.Applications.All()
	statuses := p.Statuses()

	resp := dto.DashboardResponse{
		GeneratedAt:        now.UTC(),
		Degraded:           anyDegraded(statuses),
		Students:           catalog.SummarizeStudents(p.Students.All()),
		Teachers:           catalog.SummarizeTeachers(p.Teachers.All()),
		Classes:            catalog.SummarizeClasses(p.Classes.All()),
		Attendance:         catalog.SummarizeAttendance(p.Attendance.All()),
		Assignments:        catalog.SummarizeAssignments(p.Assignments.All(), today),
		Events:             catalog.SummarizeEvents(events, today),
		Applications:       catalog.SummarizeApplications(applications),
		UpcomingEvents:     catalog.UpcomingEvents(events, today, s.cfg.UpcomingEventsLimit),
		RecentApplications: catalog.RecentApplications(applications, s.cfg.RecentApplicationsLimit),
		Sources:            statuses,
	}
	if resp.Degraded {
		s.logger.Debug("dashboard composed from fallback data")
	}
	return resp
}

// System returns gateway metrics and store states.
func (s *DashboardService) System() dto.SystemSnapshot {
	return dto.SystemSnapshot{
		Metrics: s.metrics.Snapshot(),
		Stores:  s.portal.Statuses(),
	}
}

func anyDegraded(statuses []resource.Status) bool {
	for _, st := range statuses {
		if st.Source == resource.SourceCache {
			return true
		}
	}
	return false
}
