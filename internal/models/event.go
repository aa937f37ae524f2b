package models

// Event lifecycle states.
const (
	EventUpcoming  = "upcoming"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

// Event is an entry in the school calendar.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty" validate:"omitempty,oneof=academic sports cultural holiday meeting other"`
	Date        Date   `json:"date"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Organizer   string `json:"organizer,omitempty"`
	Status      string `json:"status" validate:"required,oneof=upcoming completed cancelled"`
}

// GetID returns the record id.
func (e Event) GetID() string { return e.ID }

// WithID returns a copy carrying id.
func (e Event) WithID(id string) Event {
	e.ID = id
	return e
}
