package store

import (
	"time"

	"github.com/ldi/huddle/pkg/models"
)

// record appends an activity event to the in-memory log. Callers must
// hold the write lock. The log is intentionally not persisted.
func (s *Store) record(userID string, typ models.ActivityType, details, ticketID string) {
	s.activity = append(s.activity, &models.ActivityEvent{
		ID:        newID(),
		UserID:    userID,
		Type:      typ,
		Timestamp: s.now(),
		Details:   details,
		TicketID:  ticketID,
	})
}

// Activity returns copies of all activity events recorded since startup.
func (s *Store) Activity() []*models.ActivityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ActivityEvent, 0, len(s.activity))
	for _, e := range s.activity {
		c := *e
		out = append(out, &c)
	}
	return out
}

// ActivityForUser returns copies of the user's events with a timestamp at
// or after since, oldest first.
func (s *Store) ActivityForUser(userID string, since time.Time) []*models.ActivityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ActivityEvent
	for _, e := range s.activity {
		if e.UserID == userID && !e.Timestamp.Before(since) {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}
