package catalog

import (
	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// AttendanceSchema describes daily attendance marks.
func AttendanceSchema() resource.Schema[models.AttendanceRecord] {
	return resource.Schema[models.AttendanceRecord]{
		Name:  Attendance,
		Label: "Attendance record",
		Search: func(a models.AttendanceRecord) []string {
			return []string{a.StudentName, a.StudentID, a.Remarks}
		},
		Filters: map[string]resource.Field[models.AttendanceRecord]{
			"status":    func(a models.AttendanceRecord) string { return a.Status },
			"classId":   func(a models.AttendanceRecord) string { return a.ClassID },
			"studentId": func(a models.AttendanceRecord) string { return a.StudentID },
			"date":      func(a models.AttendanceRecord) string { return a.Date.String() },
		},
		Key: func(a models.AttendanceRecord) string {
			return compositeKey(a.StudentID, a.ClassID, a.Date.String())
		},
		Check: func(a models.AttendanceRecord) map[string]string {
			if a.Date.IsZero() {
				return map[string]string{"date": "is required"}
			}
			return nil
		},
		Columns: []resource.Column[models.AttendanceRecord]{
			{Header: "Date", Value: func(a models.AttendanceRecord) string { return a.Date.String() }},
			{Header: "Student ID", Value: func(a models.AttendanceRecord) string { return a.StudentID }},
			{Header: "Student", Value: func(a models.AttendanceRecord) string { return a.StudentName }},
			{Header: "Class", Value: func(a models.AttendanceRecord) string { return a.ClassID }},
			{Header: "Status", Value: func(a models.AttendanceRecord) string { return a.Status }},
			{Header: "Remarks", Value: func(a models.AttendanceRecord) string { return a.Remarks }},
		},
		Summarize: func(items []models.AttendanceRecord) interface{} { return SummarizeAttendance(items) },
	}
}

// SummarizeAttendance counts marks. Records with an unknown status are not counted.
func SummarizeAttendance(items []models.AttendanceRecord) dto.AttendanceStats {
	var stats dto.AttendanceStats
	for _, a := range items {
		switch a.Status {
		case models.AttendancePresent:
			stats.Present++
		case models.AttendanceAbsent:
			stats.Absent++
		case models.AttendanceLate:
			stats.Late++
		}
	}
	stats.Total = stats.Present + stats.Absent + stats.Late
	stats.PresentPct = resource.Percentage(stats.Present, stats.Total)
	stats.AbsentPct = resource.Percentage(stats.Absent, stats.Total)
	stats.LatePct = resource.Percentage(stats.Late, stats.Total)
	return stats
}
