package models

import "time"

type SprintStatus string

const (
	SprintStatusPlanned SprintStatus = "planned"
	SprintStatusActive  SprintStatus = "active"
	SprintStatusClosed  SprintStatus = "closed"
)

type Sprint struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    SprintStatus `json:"status"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
}
