package store

import (
	"sort"

	"github.com/ldi/huddle/pkg/models"
)

// CreateTicket inserts a new ticket. If t.ID is empty, a new UUID is
// generated. Status defaults to backlog and priority to medium.
func (s *Store) CreateTicket(t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = newID()
	}
	if t.Status == "" {
		t.Status = models.TicketStatusBacklog
	}
	if t.Priority == "" {
		t.Priority = models.TicketPriorityMedium
	}
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now

	s.data.Tickets = append(s.data.Tickets, t)
	return s.persist()
}

// GetTicket returns a copy of the ticket, or nil when it does not exist.
func (s *Store) GetTicket(id string) *models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.findTicket(id)
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// UpdateTicket replaces the editable fields of an existing ticket.
// A missing ticket is a silent no-op.
func (s *Store) UpdateTicket(t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findTicket(t.ID)
	if existing == nil {
		return nil
	}

	existing.Title = t.Title
	existing.Description = t.Description
	existing.Priority = t.Priority
	existing.SprintID = t.SprintID
	existing.Category = t.Category
	existing.UpdatedAt = s.now()
	return s.persist()
}

// DeleteTicket removes a ticket. Any user whose active task it was loses
// the reference in the same operation.
func (s *Store) DeleteTicket(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.data.Tickets {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	s.clearCurrentTask(id)
	s.data.Tickets = append(s.data.Tickets[:idx], s.data.Tickets[idx+1:]...)
	return s.persist()
}

// MoveTicketStatus moves a ticket to a new kanban column. Moving the
// ticket out of in_progress releases it from whichever user had it as
// their active task.
func (s *Store) MoveTicketStatus(id string, status models.TicketStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(id)
	if t == nil {
		return nil
	}

	t.Status = status
	t.UpdatedAt = s.now()
	if status != models.TicketStatusInProgress {
		s.clearCurrentTask(id)
	}
	return s.persist()
}

// AssignTicket assigns a ticket to a user. If the user has no active task
// the ticket becomes it (in_progress); otherwise the ticket is appended to
// the user's queue (backlog). If the ticket was another user's active
// task, that reference is cleared in the same operation so no orphaned
// CurrentTaskID survives.
func (s *Store) AssignTicket(ticketID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(ticketID)
	u := s.findUser(userID)
	if t == nil || u == nil {
		return nil
	}
	if u.CurrentTaskID == ticketID {
		return nil
	}

	for _, other := range s.data.Users {
		if other.ID != userID && other.CurrentTaskID == ticketID {
			other.CurrentTaskID = ""
			other.CurrentTaskStartedAt = nil
		}
	}

	now := s.now()
	if u.CurrentTaskID == "" {
		t.Status = models.TicketStatusInProgress
		t.Assignee = u.ID
		t.Order = 0
		u.CurrentTaskID = t.ID
		u.CurrentTaskStartedAt = &now
		s.record(u.ID, models.ActivityTaskStart, t.Title, t.ID)
	} else {
		t.Status = models.TicketStatusBacklog
		t.Assignee = u.ID
		t.Order = len(s.queuedTickets(u.ID, t.ID))
	}
	t.UpdatedAt = now

	return s.persist()
}

// ReorderTicket moves a ticket to a new index within a user's ordered
// list [active?, queued...]. Index 0 is the active slot: dragging a queued
// ticket there promotes it to in_progress and demotes the previous active
// ticket to the queue; dragging the active ticket away demotes it.
func (s *Store) ReorderTicket(userID, ticketID string, newIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(userID)
	t := s.findTicket(ticketID)
	if u == nil || t == nil {
		return nil
	}

	list := s.userListLocked(userID)
	from := -1
	for i, item := range list {
		if item.ID == ticketID {
			from = i
			break
		}
	}
	if from == -1 {
		return nil
	}

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(list)-1 {
		newIndex = len(list) - 1
	}

	list = append(list[:from], list[from+1:]...)
	list = append(list[:newIndex], append([]*models.Ticket{t}, list[newIndex:]...)...)

	now := s.now()
	for i, item := range list {
		if i == 0 {
			item.Status = models.TicketStatusInProgress
			item.Order = 0
			if u.CurrentTaskID != item.ID {
				u.CurrentTaskID = item.ID
				u.CurrentTaskStartedAt = &now
				s.record(u.ID, models.ActivityTaskStart, item.Title, item.ID)
			}
		} else {
			item.Status = models.TicketStatusBacklog
			item.Order = i - 1
		}
		item.UpdatedAt = now
	}

	return s.persist()
}

// UnassignTicket returns a ticket to the unassigned pool: assignee
// cleared, status backlog. If it was the user's active task the
// CurrentTaskID reference is cleared too.
func (s *Store) UnassignTicket(ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(ticketID)
	if t == nil {
		return nil
	}

	s.clearCurrentTask(ticketID)
	t.Assignee = ""
	t.Status = models.TicketStatusBacklog
	t.UpdatedAt = s.now()
	return s.persist()
}

// CompleteTicket marks a ticket done, clears the completer's active-task
// reference and appends exactly one task_done activity event. This is the
// only path that produces task_done events.
func (s *Store) CompleteTicket(ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTicket(ticketID)
	if t == nil {
		return nil
	}

	t.Status = models.TicketStatusDone
	t.UpdatedAt = s.now()
	s.clearCurrentTask(ticketID)

	if t.Assignee != "" {
		s.record(t.Assignee, models.ActivityTaskDone, t.Title, t.ID)
	}

	return s.persist()
}

// UserQueue returns copies of the user's ordered ticket list: the active
// ticket first (when one exists), then queued tickets sorted by Order.
func (s *Store) UserQueue(userID string) []*models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.userListLocked(userID)
	out := make([]*models.Ticket, 0, len(list))
	for _, t := range list {
		c := *t
		out = append(out, &c)
	}
	return out
}

// userListLocked rebuilds the implicit per-user list from the flat ticket
// array: [activeTicket?, ...queued sorted by Order].
func (s *Store) userListLocked(userID string) []*models.Ticket {
	u := s.findUser(userID)
	if u == nil {
		return nil
	}

	var list []*models.Ticket
	if u.CurrentTaskID != "" {
		if active := s.findTicket(u.CurrentTaskID); active != nil {
			list = append(list, active)
		}
	}
	return append(list, s.queuedTickets(userID, "")...)
}

// queuedTickets returns the user's backlog-status tickets sorted by Order,
// excluding the given ticket ID when non-empty.
func (s *Store) queuedTickets(userID, excludeID string) []*models.Ticket {
	var queued []*models.Ticket
	for _, t := range s.data.Tickets {
		if t.Assignee == userID && t.Status == models.TicketStatusBacklog && t.ID != excludeID {
			queued = append(queued, t)
		}
	}
	sort.SliceStable(queued, func(i, j int) bool {
		return queued[i].Order < queued[j].Order
	})
	return queued
}

// clearCurrentTask removes the active-task reference from any user
// pointing at the given ticket.
func (s *Store) clearCurrentTask(ticketID string) {
	for _, u := range s.data.Users {
		if u.CurrentTaskID == ticketID {
			u.CurrentTaskID = ""
			u.CurrentTaskStartedAt = nil
		}
	}
}
