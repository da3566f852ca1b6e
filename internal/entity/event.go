package entity

import "time"

type AppEvent struct {
	Base
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedBy   string     `json:"created_by"`
}

type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

// RSVP is unique per (event_id, user_id); its status is mutable.
type RSVP struct {
	Base
	EventID string     `json:"event_id"`
	UserID  string     `json:"user_id"`
	Status  RSVPStatus `json:"status"`
}

type EventReminder struct {
	Base
	EventID  string    `json:"event_id"`
	UserID   string    `json:"user_id"`
	RemindAt time.Time `json:"remind_at"`
}

type EventAttendance struct {
	Base
	EventID    string `json:"event_id"`
	UserID     string `json:"user_id"`
	RecordedBy string `json:"recorded_by"`
}
