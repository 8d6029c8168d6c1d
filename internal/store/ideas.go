package store

import (
	"sort"

	"github.com/ldi/huddle/pkg/models"
)

// CreateIdea inserts a new idea at the end of the manual ordering.
func (s *Store) CreateIdea(i *models.Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i.ID == "" {
		i.ID = newID()
	}
	if i.Status == "" {
		i.Status = models.IdeaStatusPending
	}
	if i.Comments == nil {
		i.Comments = []models.IdeaComment{}
	}
	now := s.now()
	i.CreatedAt = now
	i.UpdatedAt = now
	i.Order = len(s.data.Ideas)

	s.data.Ideas = append(s.data.Ideas, i)
	return s.persist()
}

// GetIdea returns a copy of the idea, or nil when it does not exist.
func (s *Store) GetIdea(id string) *models.Idea {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findIdea(id)
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// ListIdeas returns copies of all ideas sorted by their manual order.
func (s *Store) ListIdeas() []*models.Idea {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Idea, 0, len(s.data.Ideas))
	for _, i := range s.data.Ideas {
		c := *i
		out = append(out, &c)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Order < out[b].Order
	})
	return out
}

// UpdateIdea replaces the editable fields of an existing idea.
func (s *Store) UpdateIdea(i *models.Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findIdea(i.ID)
	if existing == nil {
		return nil
	}

	existing.Title = i.Title
	existing.Description = i.Description
	existing.Category = i.Category
	existing.Status = i.Status
	existing.UpdatedAt = s.now()
	return s.persist()
}

// DeleteIdea removes an idea.
func (s *Store) DeleteIdea(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, idea := range s.data.Ideas {
		if idea.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	s.data.Ideas = append(s.data.Ideas[:idx], s.data.Ideas[idx+1:]...)
	return s.persist()
}

// ReorderIdea moves an idea to a new position in the manual ordering and
// renumbers the rest.
func (s *Store) ReorderIdea(id string, newIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findIdea(id)
	if target == nil {
		return nil
	}

	ordered := make([]*models.Idea, len(s.data.Ideas))
	copy(ordered, s.data.Ideas)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Order < ordered[b].Order
	})

	from := -1
	for i, idea := range ordered {
		if idea.ID == id {
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
	if newIndex > len(ordered)-1 {
		newIndex = len(ordered) - 1
	}

	ordered = append(ordered[:from], ordered[from+1:]...)
	ordered = append(ordered[:newIndex], append([]*models.Idea{target}, ordered[newIndex:]...)...)

	for i, idea := range ordered {
		idea.Order = i
	}
	return s.persist()
}

// AddIdeaComment appends a comment to an idea. Comments are append-only.
func (s *Store) AddIdeaComment(ideaID, author, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIdea(ideaID)
	if i == nil {
		return nil
	}

	i.Comments = append(i.Comments, models.IdeaComment{
		ID:        newID(),
		Author:    author,
		Body:      body,
		CreatedAt: s.now(),
	})
	i.UpdatedAt = s.now()
	return s.persist()
}

// PromoteIdea converts an approved idea into a backlog ticket. The new
// ticket copies title, description and category from the idea and receives
// the next sequential category number (highest existing ticket number
// plus one). The idea itself is marked promoted.
func (s *Store) PromoteIdea(ideaID string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIdea(ideaID)
	if i == nil {
		return nil, nil
	}

	highest := 0
	for _, t := range s.data.Tickets {
		if t.CategoryNumber > highest {
			highest = t.CategoryNumber
		}
	}

	now := s.now()
	t := &models.Ticket{
		ID:             newID(),
		Title:          i.Title,
		Description:    i.Description,
		Status:         models.TicketStatusBacklog,
		Priority:       models.TicketPriorityMedium,
		Category:       i.Category,
		CategoryNumber: highest + 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.data.Tickets = append(s.data.Tickets, t)

	i.Status = models.IdeaStatusPromoted
	i.UpdatedAt = now

	if err := s.persist(); err != nil {
		return nil, err
	}
	c := *t
	return &c, nil
}
