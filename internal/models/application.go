package models

import "time"

// Admission application review states.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// ApplicantInfo describes the prospective student.
type ApplicantInfo struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	DateOfBirth    Date   `json:"dateOfBirth"`
	Gender         string `json:"gender,omitempty"`
	GradeApplying  string `json:"gradeApplying" validate:"required"`
	PreviousSchool string `json:"previousSchool,omitempty"`
}

// FullName joins first and last name.
func (a ApplicantInfo) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// ContactInfo is how the school reaches the family.
type ContactInfo struct {
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// ParentInfo describes the applicant's parents or guardian.
type ParentInfo struct {
	FatherName    string `json:"fatherName,omitempty"`
	MotherName    string `json:"motherName,omitempty"`
	GuardianName  string `json:"guardianName,omitempty"`
	GuardianPhone string `json:"guardianPhone,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
}

// Application is an admission request submitted through the public form.
type Application struct {
	ID                string        `json:"id"`
	ApplicationNumber string        `json:"applicationNumber,omitempty"`
	StudentInfo       ApplicantInfo `json:"studentInfo"`
	ContactInfo       ContactInfo   `json:"contactInfo"`
	ParentInfo        ParentInfo    `json:"parentInfo"`
	Status            string        `json:"status" validate:"required,oneof=pending approved rejected"`
	Remarks           string        `json:"remarks,omitempty"`
	SubmittedAt       *time.Time    `json:"submittedAt,omitempty"`
	LastUpdated       *time.Time    `json:"lastUpdated,omitempty"`
}

// GetID returns the record id.
func (a Application) GetID() string { return a.ID }

// WithID returns a copy carrying id.
func (a Application) WithID(id string) Application {
	a.ID = id
	return a
}
