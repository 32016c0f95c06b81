package dtos

import "time"

// Event is a club event with an optional attendance cap.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Location     string    `json:"location"`
	ImageURL     *string   `json:"image_url,omitempty"`
	OrganizerID  string    `json:"organizer_id"`
	Attendees    []string  `json:"attendees"`
	MaxAttendees *int      `json:"max_attendees,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasAttendee reports whether memberID already holds a slot.
func (e *Event) HasAttendee(memberID string) bool {
	for _, id := range e.Attendees {
		if id == memberID {
			return true
		}
	}
	return false
}

// IsFull reports whether the cap, when set, has been reached.
func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && len(e.Attendees) >= *e.MaxAttendees
}

// EventCreate is the create-event payload.
type EventCreate struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Location     string  `json:"location"`
	ImageURL     *string `json:"image_url,omitempty"`
	MaxAttendees *int    `json:"max_attendees,omitempty"`
}
