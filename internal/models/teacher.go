package models

// Teacher lifecycle states.
const (
	TeacherActive   = "active"
	TeacherInactive = "inactive"
	TeacherOnLeave  = "on-leave"
)

// Teacher is a member of the teaching staff.
type Teacher struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" validate:"required"`
	Email         string   `json:"email" validate:"required,email"`
	Phone         string   `json:"phone,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	Department    string   `json:"department,omitempty"`
	Qualification string   `json:"qualification,omitempty"`
	Experience    int      `json:"experience,omitempty" validate:"gte=0"`
	Specialties   []string `json:"specialties,omitempty"`
	JoiningDate   Date     `json:"joiningDate"`
	Status        string   `json:"status" validate:"required,oneof=active inactive on-leave"`
}

// GetID returns the record id.
func (t Teacher) GetID() string { return t.ID }

// WithID returns a copy carrying id.
func (t Teacher) WithID(id string) Teacher {
	t.ID = id
	return t
}
