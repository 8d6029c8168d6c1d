package models

import "time"

type UserStatus string

const (
	UserStatusOnline UserStatus = "online"
	UserStatusBreak  UserStatus = "break"
	UserStatusOff    UserStatus = "off"
)

type User struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Role   string     `json:"role"`
	Status UserStatus `json:"status"`

	// CurrentTaskID references the single in_progress ticket assigned to
	// this user. It changes only through assignment, reorder, completion
	// and unassignment, never directly.
	CurrentTaskID        string     `json:"current_task_id,omitempty"`
	CurrentTaskStartedAt *time.Time `json:"current_task_started_at,omitempty"`

	IsBlocked     bool   `json:"is_blocked"`
	BlockerReason string `json:"blocker_reason,omitempty"`
}
