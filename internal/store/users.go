package store

import "github.com/ldi/huddle/pkg/models"

// CreateUser inserts a new user. Status defaults to online.
func (s *Store) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = newID()
	}
	if u.Status == "" {
		u.Status = models.UserStatusOnline
	}

	s.data.Users = append(s.data.Users, u)
	return s.persist()
}

// GetUser returns a copy of the user, or nil when it does not exist.
func (s *Store) GetUser(id string) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.findUser(id)
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// ListUsers returns copies of all users.
func (s *Store) ListUsers() []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.data.Users))
	for _, u := range s.data.Users {
		c := *u
		out = append(out, &c)
	}
	return out
}

// SetUserStatus changes a user's presence status and records a
// status_change activity event.
func (s *Store) SetUserStatus(userID string, status models.UserStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(userID)
	if u == nil {
		return nil
	}

	u.Status = status
	s.record(u.ID, models.ActivityStatusChange, string(status), "")
	return s.persist()
}

// SetBlocker flags a user as blocked with a reason and records a blocker
// activity event.
func (s *Store) SetBlocker(userID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(userID)
	if u == nil {
		return nil
	}

	u.IsBlocked = true
	u.BlockerReason = reason
	s.record(u.ID, models.ActivityBlocker, reason, "")
	return s.persist()
}

// ClearBlocker removes a user's blocked flag.
func (s *Store) ClearBlocker(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(userID)
	if u == nil {
		return nil
	}

	u.IsBlocked = false
	u.BlockerReason = ""
	return s.persist()
}

// DeleteUser removes a user and unassigns their tickets back to the pool.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, u := range s.data.Users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	for _, t := range s.data.Tickets {
		if t.Assignee == id {
			t.Assignee = ""
			if t.Status == models.TicketStatusInProgress {
				t.Status = models.TicketStatusBacklog
			}
		}
	}

	s.data.Users = append(s.data.Users[:idx], s.data.Users[idx+1:]...)
	return s.persist()
}
