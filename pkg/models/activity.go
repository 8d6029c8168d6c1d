package models

import "time"

type ActivityType string

const (
	ActivityStatusChange ActivityType = "status_change"
	ActivityTaskStart    ActivityType = "task_start"
	ActivityTaskDone     ActivityType = "task_done"
	ActivityBlocker      ActivityType = "blocker"
)

// ActivityEvent is an append-only log entry recording what a user did and
// when. The log lives in memory only and is never written to storage;
// restarting the process loses it.
type ActivityEvent struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Type      ActivityType `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Details   string       `json:"details"`
	TicketID  string       `json:"ticket_id,omitempty"`
}
