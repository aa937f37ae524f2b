package dto

// StudentStats summarises the student roster.
type StudentStats struct {
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Inactive  int            `json:"inactive"`
	ActivePct int            `json:"activePct"`
	ByClass   map[string]int `json:"byClass"`
}

// TeacherStats summarises the teaching staff.
type TeacherStats struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Inactive     int            `json:"inactive"`
	OnLeave      int            `json:"onLeave"`
	ByDepartment map[string]int `json:"byDepartment"`
}

// ClassStats summarises class capacity.
type ClassStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Capacity       int `json:"capacity"`
	Enrolled       int `json:"enrolled"`
	UtilisationPct int `json:"utilisationPct"`
}

// AttendanceStats counts marks. Total is always Present+Absent+Late.
type AttendanceStats struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	Total      int `json:"total"`
	PresentPct int `json:"presentPct"`
	AbsentPct  int `json:"absentPct"`
	LatePct    int `json:"latePct"`
}

// AssignmentStats summarises coursework.
type AssignmentStats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Completed   int `json:"completed"`
	Archived    int `json:"archived"`
	Overdue     int `json:"overdue"`
	DueThisWeek int `json:"dueThisWeek"`
}

// EventStats summarises the school calendar.
type EventStats struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	ThisMonth int `json:"thisMonth"`
}

// ApplicationStats summarises admissions.
type ApplicationStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
	ApprovalPct int `json:"approvalPct"`
}
