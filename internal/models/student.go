package models

// Student lifecycle states.
const (
	StudentActive   = "active"
	StudentInactive = "inactive"
)

// Student is a learner enrolled at the school.
type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty"`
	RollNumber    string `json:"rollNumber,omitempty"`
	ClassID       string `json:"classId,omitempty"`
	ClassName     string `json:"className,omitempty"`
	Gender        string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	DateOfBirth   Date   `json:"dateOfBirth"`
	Address       string `json:"address,omitempty"`
	ParentName    string `json:"parentName,omitempty"`
	ParentPhone   string `json:"parentPhone,omitempty"`
	AdmissionDate Date   `json:"admissionDate"`
	Status        string `json:"status" validate:"required,oneof=active inactive"`
}

// GetID returns the record id.
func (s Student) GetID() string { return s.ID }

// WithID returns a copy carrying id.
func (s Student) WithID(id string) Student {
	s.ID = id
	return s
}
