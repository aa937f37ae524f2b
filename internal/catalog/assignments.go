package catalog

import (
	"strings"

	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// AssignmentSchema describes coursework. clock decides which assignments are overdue.
func AssignmentSchema(clock Clock) resource.Schema[models.Assignment] {
	return resource.Schema[models.Assignment]{
		Name:  Assignments,
		Label: "Assignment",
		Search: func(a models.Assignment) []string {
			return []string{a.Title, a.Description, a.Subject}
		},
		Filters: map[string]resource.Field[models.Assignment]{
			"status":    func(a models.Assignment) string { return a.Status },
			"subject":   func(a models.Assignment) string { return a.Subject },
			"classId":   func(a models.Assignment) string { return a.ClassID },
			"teacherId": func(a models.Assignment) string { return a.TeacherID },
		},
		Key: func(a models.Assignment) string {
			return compositeKey(a.Title, a.ClassID, a.DueDate.String())
		},
		Prepare: func(a models.Assignment) models.Assignment {
			a.Title = strings.TrimSpace(a.Title)
			a.Status = defaultStatus(a.Status, models.AssignmentActive)
			return a
		},
		Check: func(a models.Assignment) map[string]string {
			if a.DueDate.IsZero() {
				return map[string]string{"dueDate": "is required"}
			}
			return nil
		},
		Columns: []resource.Column[models.Assignment]{
			{Header: "Title", Value: func(a models.Assignment) string { return a.Title }},
			{Header: "Subject", Value: func(a models.Assignment) string { return a.Subject }},
			{Header: "Class", Value: func(a models.Assignment) string { return a.ClassID }},
			{Header: "Due", Value: func(a models.Assignment) string { return a.DueDate.String() }},
			{Header: "Max Marks", Value: func(a models.Assignment) string { return itoa(a.MaxMarks) }},
			{Header: "Status", Value: func(a models.Assignment) string { return a.Status }},
		},
		Summarize: func(items []models.Assignment) interface{} { return SummarizeAssignments(items, clock.today()) },
	}
}

// SummarizeAssignments computes coursework statistics relative to today. Only active
// assignments can be overdue or due this week.
func SummarizeAssignments(items []models.Assignment, today models.Date) dto.AssignmentStats {
	weekEnd := models.DateOf(today.AddDate(0, 0, 7))
	stats := dto.AssignmentStats{Total: len(items)}
	for _, a := range items {
		switch a.Status {
		case models.AssignmentActive:
			stats.Active++
			if a.DueDate.IsZero() {
				continue
			}
			if a.DueDate.Before(today) {
				stats.Overdue++
			} else if a.DueDate.Before(weekEnd) {
				stats.DueThisWeek++
			}
		case models.AssignmentCompleted:
			stats.Completed++
		case models.AssignmentArchived:
			stats.Archived++
		}
	}
	return stats
}
