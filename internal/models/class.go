package models

// Class lifecycle states.
const (
	ClassActive   = "active"
	ClassInactive = "inactive"
)

// Class is a teaching group with its room, roster size and timetable.
type Class struct {
	ID               string   `json:"id"`
	Name             string   `json:"name" validate:"required"`
	Section          string   `json:"section,omitempty"`
	Grade            string   `json:"grade,omitempty"`
	RoomNumber       string   `json:"roomNumber,omitempty"`
	Capacity         int      `json:"capacity" validate:"gte=0"`
	EnrolledStudents int      `json:"enrolledStudents" validate:"gte=0"`
	ClassTeacherID   string   `json:"classTeacherId,omitempty"`
	AssignedTeachers []string `json:"assignedTeachers,omitempty"`
	Schedule         Schedule `json:"schedule"`
	AcademicYear     string   `json:"academicYear,omitempty"`
	Status           string   `json:"status" validate:"required,oneof=active inactive"`
}

// GetID returns the record id.
func (c Class) GetID() string { return c.ID }

// WithID returns a copy carrying id.
func (c Class) WithID(id string) Class {
	c.ID = id
	return c
}
