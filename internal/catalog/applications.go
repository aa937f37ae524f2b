package catalog

import (
	"sort"
	"strings"

	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// ApplicationSchema describes admission applications.
func ApplicationSchema() resource.Schema[models.Application] {
	return resource.Schema[models.Application]{
		Name:  Applications,
		Label: "Application",
		Search: func(a models.Application) []string {
			return []string{
				a.ApplicationNumber,
				a.StudentInfo.FirstName,
				a.StudentInfo.LastName,
				a.ContactInfo.Email,
				a.ContactInfo.Phone,
			}
		},
		Filters: map[string]resource.Field[models.Application]{
			"status":        func(a models.Application) string { return a.Status },
			"gradeApplying": func(a models.Application) string { return a.StudentInfo.GradeApplying },
		},
		Key: func(a models.Application) string { return strings.ToLower(a.ApplicationNumber) },
		Prepare: func(a models.Application) models.Application {
			a.StudentInfo.FirstName = strings.TrimSpace(a.StudentInfo.FirstName)
			a.StudentInfo.LastName = strings.TrimSpace(a.StudentInfo.LastName)
			a.ContactInfo.Email = strings.TrimSpace(a.ContactInfo.Email)
			a.Status = defaultStatus(a.Status, models.ApplicationPending)
			return a
		},
		// New applications always enter review as pending; the number is assigned by the
		// backend.
		PrepareCreate: func(a models.Application) models.Application {
			a.Status = models.ApplicationPending
			a.ApplicationNumber = ""
			return a
		},
		Columns: []resource.Column[models.Application]{
			{Header: "Number", Value: func(a models.Application) string { return a.ApplicationNumber }},
			{Header: "Applicant", Value: func(a models.Application) string { return a.StudentInfo.FullName() }},
			{Header: "Grade", Value: func(a models.Application) string { return a.StudentInfo.GradeApplying }},
			{Header: "Email", Value: func(a models.Application) string { return a.ContactInfo.Email }},
			{Header: "Phone", Value: func(a models.Application) string { return a.ContactInfo.Phone }},
			{Header: "Status", Value: func(a models.Application) string { return a.Status }},
		},
		Summarize: func(items []models.Application) interface{} { return SummarizeApplications(items) },
	}
}

// SummarizeApplications computes admission statistics. The approval rate is taken over
// decided applications only.
func SummarizeApplications(items []models.Application) dto.ApplicationStats {
	stats := dto.ApplicationStats{Total: len(items)}
	for _, a := range items {
		switch a.Status {
		case models.ApplicationPending:
			stats.Pending++
		case models.ApplicationApproved:
			stats.Approved++
		case models.ApplicationRejected:
			stats.Rejected++
		}
	}
	stats.ApprovalPct = resource.Percentage(stats.Approved, stats.Approved+stats.Rejected)
	return stats
}

// RecentApplications returns up to limit applications, most recently submitted first.
// Applications without a submission time sort last.
func RecentApplications(items []models.Application, limit int) []dto.RecentApplication {
	sorted := append([]models.Application(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].SubmittedAt, sorted[j].SubmittedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]dto.RecentApplication, 0, len(sorted))
	for _, a := range sorted {
		out = append(out, dto.RecentApplication{
			ID:                a.ID,
			ApplicationNumber: a.ApplicationNumber,
			Name:              a.StudentInfo.FullName(),
			GradeApplying:     a.StudentInfo.GradeApplying,
			Status:            a.Status,
			SubmittedAt:       a.SubmittedAt,
		})
	}
	return out
}
