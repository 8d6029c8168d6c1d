package store

import "github.com/ldi/huddle/pkg/models"

// CreateOrganization inserts a new organization.
func (s *Store) CreateOrganization(o *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == "" {
		o.ID = newID()
	}
	if o.Features == nil {
		o.Features = map[string]bool{}
	}
	o.CreatedAt = s.now()

	s.data.Organizations = append(s.data.Organizations, o)
	return s.persist()
}

// ListOrganizations returns copies of all organizations.
func (s *Store) ListOrganizations() []*models.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Organization, 0, len(s.data.Organizations))
	for _, o := range s.data.Organizations {
		c := *o
		c.Features = make(map[string]bool, len(o.Features))
		for k, v := range o.Features {
			c.Features[k] = v
		}
		out = append(out, &c)
	}
	return out
}

// SetOrganizationFeature toggles one feature flag on an organization.
func (s *Store) SetOrganizationFeature(orgID, feature string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.data.Organizations {
		if o.ID == orgID {
			if o.Features == nil {
				o.Features = map[string]bool{}
			}
			o.Features[feature] = enabled
			return s.persist()
		}
	}
	return nil
}

// CreateSprint inserts a new sprint.
func (s *Store) CreateSprint(sp *models.Sprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sp.ID == "" {
		sp.ID = newID()
	}
	if sp.Status == "" {
		sp.Status = models.SprintStatusPlanned
	}

	s.data.Sprints = append(s.data.Sprints, sp)
	return s.persist()
}

// ListSprints returns copies of all sprints.
func (s *Store) ListSprints() []*models.Sprint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Sprint, 0, len(s.data.Sprints))
	for _, sp := range s.data.Sprints {
		c := *sp
		out = append(out, &c)
	}
	return out
}

// AddNotification appends a notification for a user.
func (s *Store) AddNotification(userID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Notifications = append(s.data.Notifications, &models.Notification{
		ID:        newID(),
		UserID:    userID,
		Message:   message,
		CreatedAt: s.now(),
	})
	return s.persist()
}

// MarkNotificationRead marks one notification as read.
func (s *Store) MarkNotificationRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.data.Notifications {
		if n.ID == id {
			n.Read = true
			return s.persist()
		}
	}
	return nil
}

// NotificationsForUser returns copies of a user's notifications, newest
// last.
func (s *Store) NotificationsForUser(userID string) []*models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Notification
	for _, n := range s.data.Notifications {
		if n.UserID == userID {
			c := *n
			out = append(out, &c)
		}
	}
	return out
}

// AppendStandupReport stores a finished standup report in history.
func (s *Store) AppendStandupReport(r *models.StandupReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = newID()
	}
	s.data.StandupHistory = append(s.data.StandupHistory, r)
	return s.persist()
}

// ListStandupReports returns copies of all stored reports, oldest first.
func (s *Store) ListStandupReports() []*models.StandupReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.StandupReport, 0, len(s.data.StandupHistory))
	for _, r := range s.data.StandupHistory {
		c := *r
		out = append(out, &c)
	}
	return out
}

// GetStandupReport returns a copy of one report, or nil when missing.
func (s *Store) GetStandupReport(id string) *models.StandupReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.data.StandupHistory {
		if r.ID == id {
			c := *r
			return &c
		}
	}
	return nil
}
