package catalog

import (
	"strings"

	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// StudentSchema describes the student roster.
func StudentSchema() resource.Schema[models.Student] {
	return resource.Schema[models.Student]{
		Name:  Students,
		Label: "Student",
		Search: func(s models.Student) []string {
			return []string{s.Name, s.Email, s.RollNumber, s.Phone, s.ParentName}
		},
		Filters: map[string]resource.Field[models.Student]{
			"status":  func(s models.Student) string { return s.Status },
			"classId": func(s models.Student) string { return s.ClassID },
			"gender":  func(s models.Student) string { return s.Gender },
		},
		Key: func(s models.Student) string {
			if s.RollNumber != "" {
				return "roll:" + strings.ToLower(s.RollNumber)
			}
			if s.Email != "" {
				return "email:" + strings.ToLower(s.Email)
			}
			return ""
		},
		Prepare: func(s models.Student) models.Student {
			s.Name = strings.TrimSpace(s.Name)
			s.Email = strings.TrimSpace(s.Email)
			s.Status = defaultStatus(s.Status, models.StudentActive)
			return s
		},
		Columns: []resource.Column[models.Student]{
			{Header: "Roll No", Value: func(s models.Student) string { return s.RollNumber }},
			{Header: "Name", Value: func(s models.Student) string { return s.Name }},
			{Header: "Email", Value: func(s models.Student) string { return s.Email }},
			{Header: "Class", Value: func(s models.Student) string { return studentClass(s) }},
			{Header: "Gender", Value: func(s models.Student) string { return s.Gender }},
			{Header: "Parent", Value: func(s models.Student) string { return s.ParentName }},
			{Header: "Status", Value: func(s models.Student) string { return s.Status }},
		},
		Summarize: func(items []models.Student) interface{} { return SummarizeStudents(items) },
	}
}

// SummarizeStudents computes roster statistics.
func SummarizeStudents(items []models.Student) dto.StudentStats {
	active := resource.Count(items, func(s models.Student) bool { return s.Status == models.StudentActive })
	return dto.StudentStats{
		Total:     len(items),
		Active:    active,
		Inactive:  resource.Count(items, func(s models.Student) bool { return s.Status == models.StudentInactive }),
		ActivePct: resource.Percentage(active, len(items)),
		ByClass:   resource.CountBy(items, studentClass),
	}
}

func studentClass(s models.Student) string {
	if s.ClassName != "" {
		return s.ClassName
	}
	return s.ClassID
}
