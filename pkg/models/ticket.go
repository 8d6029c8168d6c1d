package models

import "time"

type TicketStatus string

const (
	TicketStatusBacklog    TicketStatus = "backlog"
	TicketStatusInSprint   TicketStatus = "in_sprint"
	TicketStatusTodo       TicketStatus = "todo"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusInReview   TicketStatus = "in_review"
	TicketStatusReadyForQA TicketStatus = "ready_for_qa"
	TicketStatusBlocked    TicketStatus = "blocked"
	TicketStatusDone       TicketStatus = "done"
	TicketStatusShipped    TicketStatus = "shipped"
)

type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "critical"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityLow      TicketPriority = "low"
)

type Ticket struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Status         TicketStatus   `json:"status"`
	Priority       TicketPriority `json:"priority"`
	Assignee       string         `json:"assignee,omitempty"`
	SprintID       string         `json:"sprint_id,omitempty"`
	Category       string         `json:"category"`
	CategoryNumber int            `json:"category_number"`

	// Order positions the ticket within its (assignee, status) group.
	// For a user's queued tickets it is the queue index.
	Order int `json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
