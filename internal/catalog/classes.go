package catalog

import (
	"strings"

	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// ClassSchema describes classes and their timetables.
func ClassSchema() resource.Schema[models.Class] {
	return resource.Schema[models.Class]{
		Name:  Classes,
		Label: "Class",
		Search: func(c models.Class) []string {
			return []string{c.Name, c.Section, c.RoomNumber}
		},
		Filters: map[string]resource.Field[models.Class]{
			"status":         func(c models.Class) string { return c.Status },
			"grade":          func(c models.Class) string { return c.Grade },
			"classTeacherId": func(c models.Class) string { return c.ClassTeacherID },
			"academicYear":   func(c models.Class) string { return c.AcademicYear },
		},
		Key: func(c models.Class) string { return compositeKey(c.Name, c.Section, c.AcademicYear) },
		Prepare: func(c models.Class) models.Class {
			c.Name = strings.TrimSpace(c.Name)
			c.Status = defaultStatus(c.Status, models.ClassActive)
			return c
		},
		Check: func(c models.Class) map[string]string {
			if c.Capacity > 0 && c.EnrolledStudents > c.Capacity {
				return map[string]string{"enrolledStudents": "must not exceed capacity"}
			}
			return nil
		},
		Columns: []resource.Column[models.Class]{
			{Header: "Name", Value: func(c models.Class) string { return c.Name }},
			{Header: "Section", Value: func(c models.Class) string { return c.Section }},
			{Header: "Grade", Value: func(c models.Class) string { return c.Grade }},
			{Header: "Room", Value: func(c models.Class) string { return c.RoomNumber }},
			{Header: "Enrolled", Value: func(c models.Class) string { return itoa(c.EnrolledStudents) + "/" + itoa(c.Capacity) }},
			{Header: "Schedule", Value: func(c models.Class) string { return c.Schedule.Summary() }},
			{Header: "Status", Value: func(c models.Class) string { return c.Status }},
		},
		Summarize: func(items []models.Class) interface{} { return SummarizeClasses(items) },
	}
}

// SummarizeClasses computes capacity statistics.
func SummarizeClasses(items []models.Class) dto.ClassStats {
	stats := dto.ClassStats{Total: len(items)}
	for _, c := range items {
		if c.Status == models.ClassActive {
			stats.Active++
		}
		stats.Capacity += c.Capacity
		stats.Enrolled += c.EnrolledStudents
	}
	stats.UtilisationPct = resource.Percentage(stats.Enrolled, stats.Capacity)
	return stats
}
