package models

import "time"

type RequirementStatus string

const (
	RequirementStatusDraft    RequirementStatus = "draft"
	RequirementStatusReview   RequirementStatus = "review"
	RequirementStatusApproved RequirementStatus = "approved"
)

type Requirement struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      RequirementStatus `json:"status"`
	Order       int               `json:"order"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
