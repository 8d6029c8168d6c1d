package store

import (
	"testing"

	"github.com/ldi/huddle/internal/storage"
	"github.com/ldi/huddle/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(storage.NewMemory())
}

// assertSingleActive checks the core invariant: per user, at most one
// ticket is in_progress and it is the one referenced by CurrentTaskID.
func assertSingleActive(t *testing.T, s *Store) {
	t.Helper()
	for _, u := range s.ListUsers() {
		active := 0
		for _, ticket := range s.ListTickets(TicketFilter{Assignee: u.ID}) {
			if ticket.Status == models.TicketStatusInProgress {
				active++
				if u.CurrentTaskID != ticket.ID {
					t.Errorf("User %s has in_progress ticket %s but CurrentTaskID=%s", u.Name, ticket.ID, u.CurrentTaskID)
				}
			}
		}
		if active > 1 {
			t.Errorf("User %s has %d in_progress tickets", u.Name, active)
		}
		if u.CurrentTaskID != "" && active == 0 {
			t.Errorf("User %s has CurrentTaskID=%s but no in_progress ticket", u.Name, u.CurrentTaskID)
		}
	}
}

func TestAssignTicket(t *testing.T) {
	s := newTestStore(t)

	u := &models.User{Name: "Dana"}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	a := &models.Ticket{Title: "A"}
	b := &models.Ticket{Title: "B"}
	c := &models.Ticket{Title: "C"}
	for _, ticket := range []*models.Ticket{a, b, c} {
		if err := s.CreateTicket(ticket); err != nil {
			t.Fatalf("Failed to create ticket: %v", err)
		}
	}

	// 1. First assignment becomes the active task
	if err := s.AssignTicket(a.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}
	got := s.GetTicket(a.ID)
	if got.Status != models.TicketStatusInProgress {
		t.Errorf("Expected in_progress, got %s", got.Status)
	}
	user := s.GetUser(u.ID)
	if user.CurrentTaskID != a.ID {
		t.Errorf("Expected CurrentTaskID %s, got %s", a.ID, user.CurrentTaskID)
	}
	if user.CurrentTaskStartedAt == nil {
		t.Errorf("Expected CurrentTaskStartedAt to be set")
	}

	// 2. Further assignments queue up in order
	if err := s.AssignTicket(b.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}
	if err := s.AssignTicket(c.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}

	gotB := s.GetTicket(b.ID)
	if gotB.Status != models.TicketStatusBacklog || gotB.Order != 0 {
		t.Errorf("Expected B queued at order 0, got status=%s order=%d", gotB.Status, gotB.Order)
	}
	gotC := s.GetTicket(c.ID)
	if gotC.Status != models.TicketStatusBacklog || gotC.Order != 1 {
		t.Errorf("Expected C queued at order 1, got status=%s order=%d", gotC.Status, gotC.Order)
	}

	// 3. Queue reads back as [active, queued...]
	queue := s.UserQueue(u.ID)
	if len(queue) != 3 {
		t.Fatalf("Expected queue of 3, got %d", len(queue))
	}
	if queue[0].ID != a.ID || queue[1].ID != b.ID || queue[2].ID != c.ID {
		t.Errorf("Unexpected queue order: %s, %s, %s", queue[0].Title, queue[1].Title, queue[2].Title)
	}

	assertSingleActive(t, s)
}

func TestAssignStealsActiveTask(t *testing.T) {
	s := newTestStore(t)

	u1 := &models.User{Name: "Dana"}
	u2 := &models.User{Name: "Femi"}
	if err := s.CreateUser(u1); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if err := s.CreateUser(u2); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	ticket := &models.Ticket{Title: "Shared"}
	if err := s.CreateTicket(ticket); err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}

	// Active for u1, then reassigned to u2
	if err := s.AssignTicket(ticket.ID, u1.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}
	if err := s.AssignTicket(ticket.ID, u2.ID); err != nil {
		t.Fatalf("Failed to reassign: %v", err)
	}

	if got := s.GetUser(u1.ID); got.CurrentTaskID != "" {
		t.Errorf("Expected u1 CurrentTaskID cleared, got %s", got.CurrentTaskID)
	}
	if got := s.GetUser(u2.ID); got.CurrentTaskID != ticket.ID {
		t.Errorf("Expected u2 CurrentTaskID %s, got %s", ticket.ID, got.CurrentTaskID)
	}
	assertSingleActive(t, s)
}

func TestReorderPromotesQueuedTicket(t *testing.T) {
	s := newTestStore(t)

	u := &models.User{Name: "Dana"}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	a := &models.Ticket{Title: "A"}
	b := &models.Ticket{Title: "B"}
	if err := s.CreateTicket(a); err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}
	if err := s.CreateTicket(b); err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}

	// A active, B queued at order 0
	if err := s.AssignTicket(a.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}
	if err := s.AssignTicket(b.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}

	// Dragging B to index 0 promotes it and demotes A
	if err := s.ReorderTicket(u.ID, b.ID, 0); err != nil {
		t.Fatalf("Failed to reorder: %v", err)
	}

	gotB := s.GetTicket(b.ID)
	if gotB.Status != models.TicketStatusInProgress {
		t.Errorf("Expected B in_progress, got %s", gotB.Status)
	}
	gotA := s.GetTicket(a.ID)
	if gotA.Status != models.TicketStatusBacklog || gotA.Order != 0 {
		t.Errorf("Expected A backlog at order 0, got status=%s order=%d", gotA.Status, gotA.Order)
	}
	if got := s.GetUser(u.ID); got.CurrentTaskID != b.ID {
		t.Errorf("Expected CurrentTaskID %s, got %s", b.ID, got.CurrentTaskID)
	}
	assertSingleActive(t, s)
}

func TestReorderDemotesActiveTicket(t *testing.T) {
	s := newTestStore(t)

	u := &models.User{Name: "Dana"}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	a := &models.Ticket{Title: "A"}
	b := &models.Ticket{Title: "B"}
	c := &models.Ticket{Title: "C"}
	for _, ticket := range []*models.Ticket{a, b, c} {
		if err := s.CreateTicket(ticket); err != nil {
			t.Fatalf("Failed to create ticket: %v", err)
		}
		if err := s.AssignTicket(ticket.ID, u.ID); err != nil {
			t.Fatalf("Failed to assign: %v", err)
		}
	}

	// Drag the active ticket A to the end of the list
	if err := s.ReorderTicket(u.ID, a.ID, 2); err != nil {
		t.Fatalf("Failed to reorder: %v", err)
	}

	queue := s.UserQueue(u.ID)
	if len(queue) != 3 {
		t.Fatalf("Expected queue of 3, got %d", len(queue))
	}
	if queue[0].ID != b.ID {
		t.Errorf("Expected B promoted to active, got %s", queue[0].Title)
	}
	if queue[2].ID != a.ID {
		t.Errorf("Expected A at the end, got %s", queue[2].Title)
	}
	if got := s.GetTicket(a.ID); got.Status != models.TicketStatusBacklog {
		t.Errorf("Expected A demoted to backlog, got %s", got.Status)
	}
	assertSingleActive(t, s)
}

func TestUnassignTicket(t *testing.T) {
	s := newTestStore(t)

	u := &models.User{Name: "Dana"}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	ticket := &models.Ticket{Title: "A"}
	if err := s.CreateTicket(ticket); err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}
	if err := s.AssignTicket(ticket.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}

	if err := s.UnassignTicket(ticket.ID); err != nil {
		t.Fatalf("Failed to unassign: %v", err)
	}

	got := s.GetTicket(ticket.ID)
	if got.Assignee != "" || got.Status != models.TicketStatusBacklog {
		t.Errorf("Expected unassigned backlog ticket, got assignee=%s status=%s", got.Assignee, got.Status)
	}
	user := s.GetUser(u.ID)
	if user.CurrentTaskID != "" || user.CurrentTaskStartedAt != nil {
		t.Errorf("Expected active-task fields cleared, got %s", user.CurrentTaskID)
	}
}

func TestCompleteTicket(t *testing.T) {
	s := newTestStore(t)

	u := &models.User{Name: "Dana"}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	ticket := &models.Ticket{Title: "A"}
	if err := s.CreateTicket(ticket); err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}
	if err := s.AssignTicket(ticket.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}

	if err := s.CompleteTicket(ticket.ID); err != nil {
		t.Fatalf("Failed to complete: %v", err)
	}

	if got := s.GetTicket(ticket.ID); got.Status != models.TicketStatusDone {
		t.Errorf("Expected done, got %s", got.Status)
	}
	if got := s.GetUser(u.ID); got.CurrentTaskID != "" {
		t.Errorf("Expected CurrentTaskID cleared, got %s", got.CurrentTaskID)
	}

	// Exactly one task_done event referencing the ticket
	doneEvents := 0
	for _, e := range s.Activity() {
		if e.Type == models.ActivityTaskDone {
			doneEvents++
			if e.TicketID != ticket.ID {
				t.Errorf("Expected event TicketID %s, got %s", ticket.ID, e.TicketID)
			}
			if e.UserID != u.ID {
				t.Errorf("Expected event UserID %s, got %s", u.ID, e.UserID)
			}
		}
	}
	if doneEvents != 1 {
		t.Errorf("Expected exactly 1 task_done event, got %d", doneEvents)
	}
}

func TestMutationsOnMissingEntitiesAreNoOps(t *testing.T) {
	s := newTestStore(t)

	if err := s.AssignTicket("missing", "also-missing"); err != nil {
		t.Errorf("Expected silent no-op, got %v", err)
	}
	if err := s.CompleteTicket("missing"); err != nil {
		t.Errorf("Expected silent no-op, got %v", err)
	}
	if err := s.UnassignTicket("missing"); err != nil {
		t.Errorf("Expected silent no-op, got %v", err)
	}
	if err := s.ReorderTicket("missing", "missing", 0); err != nil {
		t.Errorf("Expected silent no-op, got %v", err)
	}
	if got := s.GetTicket("missing"); got != nil {
		t.Errorf("Expected nil for missing ticket, got %+v", got)
	}
}

func TestMoveTicketStatusReleasesActiveTask(t *testing.T) {
	s := newTestStore(t)

	u := &models.User{Name: "Dana"}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	ticket := &models.Ticket{Title: "A"}
	if err := s.CreateTicket(ticket); err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}
	if err := s.AssignTicket(ticket.ID, u.ID); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}

	if err := s.MoveTicketStatus(ticket.ID, models.TicketStatusInReview); err != nil {
		t.Fatalf("Failed to move status: %v", err)
	}

	if got := s.GetTicket(ticket.ID); got.Status != models.TicketStatusInReview {
		t.Errorf("Expected in_review, got %s", got.Status)
	}
	if got := s.GetUser(u.ID); got.CurrentTaskID != "" {
		t.Errorf("Expected CurrentTaskID cleared, got %s", got.CurrentTaskID)
	}
}
