package store

import (
	"sort"

	"github.com/ldi/huddle/pkg/models"
)

// CreateRequirement inserts a new requirement at the end of the ordering.
func (s *Store) CreateRequirement(r *models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = newID()
	}
	if r.Status == "" {
		r.Status = models.RequirementStatusDraft
	}
	now := s.now()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Order = len(s.data.Requirements)

	s.data.Requirements = append(s.data.Requirements, r)
	return s.persist()
}

// ListRequirements returns copies of all requirements sorted by order.
func (s *Store) ListRequirements() []*models.Requirement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Requirement, 0, len(s.data.Requirements))
	for _, r := range s.data.Requirements {
		c := *r
		out = append(out, &c)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Order < out[b].Order
	})
	return out
}

// UpdateRequirement replaces the editable fields of a requirement.
func (s *Store) UpdateRequirement(r *models.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findRequirement(r.ID)
	if existing == nil {
		return nil
	}

	existing.Title = r.Title
	existing.Description = r.Description
	existing.Status = r.Status
	existing.UpdatedAt = s.now()
	return s.persist()
}

// DeleteRequirement removes a requirement.
func (s *Store) DeleteRequirement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.data.Requirements {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	s.data.Requirements = append(s.data.Requirements[:idx], s.data.Requirements[idx+1:]...)
	return s.persist()
}
