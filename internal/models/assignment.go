package models

// Assignment lifecycle states.
const (
	AssignmentActive    = "active"
	AssignmentCompleted = "completed"
	AssignmentArchived  = "archived"
)

// Assignment is homework or coursework set for a class.
type Assignment struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description,omitempty"`
	Subject     string   `json:"subject" validate:"required"`
	ClassID     string   `json:"classId,omitempty"`
	TeacherID   string   `json:"teacherId,omitempty"`
	DueDate     Date     `json:"dueDate"`
	MaxMarks    int      `json:"maxMarks,omitempty" validate:"gte=0"`
	Attachments []string `json:"attachments,omitempty"`
	Status      string   `json:"status" validate:"required,oneof=active completed archived"`
}

// GetID returns the record id.
func (a Assignment) GetID() string { return a.ID }

// WithID returns a copy carrying id.
func (a Assignment) WithID(id string) Assignment {
	a.ID = id
	return a
}
