package store

import (
	"sort"

	"github.com/ldi/huddle/pkg/models"
)

// TicketFilter narrows and pages a ticket listing. Zero values mean
// "no filter"; a Limit of 0 means "everything".
type TicketFilter struct {
	Status   models.TicketStatus
	Assignee string
	SprintID string
	Offset   int
	Limit    int
}

var priorityRank = map[models.TicketPriority]int{
	models.TicketPriorityCritical: 0,
	models.TicketPriorityHigh:     1,
	models.TicketPriorityMedium:   2,
	models.TicketPriorityLow:      3,
}

// ListTickets returns a filtered, priority-sorted, paginated projection of
// the ticket collection. The result holds copies; mutating it never
// touches the dataset.
func (s *Store) ListTickets(f TicketFilter) []*models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Ticket
	for _, t := range s.data.Tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Assignee != "" && t.Assignee != f.Assignee {
			continue
		}
		if f.SprintID != "" && t.SprintID != f.SprintID {
			continue
		}
		c := *t
		out = append(out, &c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if priorityRank[out[i].Priority] != priorityRank[out[j].Priority] {
			return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}

// BoardColumn is one kanban column: a status plus its tickets.
type BoardColumn struct {
	Status  models.TicketStatus `json:"status"`
	Tickets []*models.Ticket    `json:"tickets"`
}

// boardOrder is the fixed column order of the kanban board.
var boardOrder = []models.TicketStatus{
	models.TicketStatusBacklog,
	models.TicketStatusInSprint,
	models.TicketStatusTodo,
	models.TicketStatusInProgress,
	models.TicketStatusInReview,
	models.TicketStatusReadyForQA,
	models.TicketStatusBlocked,
	models.TicketStatusDone,
	models.TicketStatusShipped,
}

// Board groups every ticket into the fixed ordered set of kanban columns.
// Columns are always present, even when empty.
func (s *Store) Board() []BoardColumn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStatus := make(map[models.TicketStatus][]*models.Ticket)
	for _, t := range s.data.Tickets {
		c := *t
		byStatus[t.Status] = append(byStatus[t.Status], &c)
	}

	columns := make([]BoardColumn, 0, len(boardOrder))
	for _, status := range boardOrder {
		tickets := byStatus[status]
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].Order < tickets[j].Order
		})
		columns = append(columns, BoardColumn{Status: status, Tickets: tickets})
	}
	return columns
}

// StatusCounts returns the number of tickets in each status.
func (s *Store) StatusCounts() map[models.TicketStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.TicketStatus]int)
	for _, t := range s.data.Tickets {
		counts[t.Status]++
	}
	return counts
}
