package models

import "time"

// TicketRef is the minimal ticket reference embedded in frozen standup
// snapshots. It deliberately carries no live fields.
type TicketRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Label string `json:"label"`
}

// AttendeeSnapshot freezes one user's state at the moment a standup
// session finished. It is a distinct type from User so historical reports
// never depend on fields a snapshot does not populate.
type AttendeeSnapshot struct {
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Role          string      `json:"role"`
	Status        UserStatus  `json:"status"`
	IsBlocked     bool        `json:"is_blocked"`
	BlockerReason string      `json:"blocker_reason,omitempty"`
	Yesterday     []TicketRef `json:"yesterday"`
	Today         []TicketRef `json:"today"`
}

// StandupReport is created once when a session ends and never mutated.
type StandupReport struct {
	ID              string             `json:"id"`
	Date            time.Time          `json:"date"`
	DurationSeconds int                `json:"duration_seconds"`
	Attendees       []AttendeeSnapshot `json:"attendees"`
}
