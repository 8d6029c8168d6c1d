package models

import "time"

type IdeaStatus string

const (
	IdeaStatusPending  IdeaStatus = "pending"
	IdeaStatusApproved IdeaStatus = "approved"
	IdeaStatusRejected IdeaStatus = "rejected"
	IdeaStatusPromoted IdeaStatus = "promoted"
)

type IdeaComment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Idea struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Status      IdeaStatus    `json:"status"`
	Order       int           `json:"order"`
	Comments    []IdeaComment `json:"comments"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
