package models

// Attendance marks.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// AttendanceRecord is one student's mark for one class on one day.
type AttendanceRecord struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId" validate:"required"`
	StudentName string `json:"studentName,omitempty"`
	ClassID     string `json:"classId" validate:"required"`
	Date        Date   `json:"date"`
	Status      string `json:"status" validate:"required,oneof=present absent late"`
	Remarks     string `json:"remarks,omitempty"`
	MarkedBy    string `json:"markedBy,omitempty"`
}

// GetID returns the record id.
func (a AttendanceRecord) GetID() string { return a.ID }

// WithID returns a copy carrying id.
func (a AttendanceRecord) WithID(id string) AttendanceRecord {
	a.ID = id
	return a
}
