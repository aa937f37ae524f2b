package dto

import (
	"time"

	"github.com/noah-isme/school-portal/internal/resource"
)

// DashboardResponse captures the aggregated admin dashboard payload.
type DashboardResponse struct {
	GeneratedAt        time.Time           `json:"generatedAt"`
	Degraded           bool                `json:"degraded"`
	Students           StudentStats        `json:"students"`
	Teachers           TeacherStats        `json:"teachers"`
	Classes            ClassStats          `json:"classes"`
	Attendance         AttendanceStats     `json:"attendance"`
	Assignments        AssignmentStats     `json:"assignments"`
	Events             EventStats          `json:"events"`
	Applications       ApplicationStats    `json:"applications"`
	UpcomingEvents     []UpcomingEvent     `json:"upcomingEvents"`
	RecentApplications []RecentApplication `json:"recentApplications"`
	Sources            []resource.Status   `json:"sources"`
}

// UpcomingEvent is a simplified calendar event for the dashboard.
type UpcomingEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location,omitempty"`
}

// RecentApplication lists a newly submitted admission application.
type RecentApplication struct {
	ID                string     `json:"id"`
	ApplicationNumber string     `json:"applicationNumber"`
	Name              string     `json:"name"`
	GradeApplying     string     `json:"gradeApplying"`
	Status            string     `json:"status"`
	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
}

// SystemMetrics aggregates gateway counters for the operations view.
type SystemMetrics struct {
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"avgRequestDurationMs"`
	UpstreamCalls             uint64    `json:"upstreamCalls"`
	UpstreamFailures          uint64    `json:"upstreamFailures"`
	AverageUpstreamDurationMs float64   `json:"avgUpstreamDurationMs"`
	MutationsTotal            uint64    `json:"mutationsTotal"`
	DegradedMutations         uint64    `json:"degradedMutations"`
	CacheFailures             uint64    `json:"cacheFailures"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}

// SystemSnapshot is the operational view served at /dashboard/system.
type SystemSnapshot struct {
	Metrics SystemMetrics     `json:"metrics"`
	Stores  []resource.Status `json:"stores"`
}
