package catalog

import (
	"strings"

	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// TeacherSchema describes the teaching staff.
func TeacherSchema() resource.Schema[models.Teacher] {
	return resource.Schema[models.Teacher]{
		Name:  Teachers,
		Label: "Teacher",
		Search: func(t models.Teacher) []string {
			return append([]string{t.Name, t.Email, t.Subject, t.Department}, t.Specialties...)
		},
		Filters: map[string]resource.Field[models.Teacher]{
			"status":     func(t models.Teacher) string { return t.Status },
			"department": func(t models.Teacher) string { return t.Department },
			"subject":    func(t models.Teacher) string { return t.Subject },
		},
		Key: func(t models.Teacher) string { return strings.ToLower(strings.TrimSpace(t.Email)) },
		Prepare: func(t models.Teacher) models.Teacher {
			t.Name = strings.TrimSpace(t.Name)
			t.Email = strings.TrimSpace(t.Email)
			t.Status = defaultStatus(t.Status, models.TeacherActive)
			return t
		},
		Columns: []resource.Column[models.Teacher]{
			{Header: "Name", Value: func(t models.Teacher) string { return t.Name }},
			{Header: "Email", Value: func(t models.Teacher) string { return t.Email }},
			{Header: "Subject", Value: func(t models.Teacher) string { return t.Subject }},
			{Header: "Department", Value: func(t models.Teacher) string { return t.Department }},
			{Header: "Experience", Value: func(t models.Teacher) string { return itoa(t.Experience) }},
			{Header: "Joined", Value: func(t models.Teacher) string { return t.JoiningDate.String() }},
			{Header: "Status", Value: func(t models.Teacher) string { return t.Status }},
		},
		Summarize: func(items []models.Teacher) interface{} { return SummarizeTeachers(items) },
	}
}

// SummarizeTeachers computes staff statistics.
func SummarizeTeachers(items []models.Teacher) dto.TeacherStats {
	return dto.TeacherStats{
		Total:        len(items),
		Active:       resource.Count(items, func(t models.Teacher) bool { return t.Status == models.TeacherActive }),
		Inactive:     resource.Count(items, func(t models.Teacher) bool { return t.Status == models.TeacherInactive }),
		OnLeave:      resource.Count(items, func(t models.Teacher) bool { return t.Status == models.TeacherOnLeave }),
		ByDepartment: resource.CountBy(items, func(t models.Teacher) string { return t.Department }),
	}
}
