// Package store owns the application dataset. It loads the persisted JSON
// document once at construction and rewrites it wholesale after every
// mutation, mirroring the single-blob storage contract. All mutations go
// through typed command methods; callers never hold authoritative copies.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ldi/huddle/internal/storage"
	"github.com/ldi/huddle/pkg/models"
)

// DatasetKey is the fixed storage key holding the entire dataset.
const DatasetKey = "huddle:dataset"

type Store struct {
	mu      sync.RWMutex
	storage storage.Storage
	data    *models.Dataset

	// activity is in-memory only. It is never written to storage, so a
	// restart loses everything except what finished standup reports
	// already froze.
	activity []*models.ActivityEvent

	onChange func()
	now      func() time.Time
}

// New loads the dataset from storage. A missing or corrupt document
// silently yields an empty default dataset; there is no migration and no
// user-visible error on load.
func New(st storage.Storage) *Store {
	s := &Store{
		storage: st,
		data:    &models.Dataset{},
		now:     time.Now,
	}

	raw, ok, err := st.Get(DatasetKey)
	if err == nil && ok {
		var data models.Dataset
		if jsonErr := json.Unmarshal([]byte(raw), &data); jsonErr == nil {
			s.data = &data
		}
	}

	return s
}

// SetOnChange registers a hook invoked after every successful persist.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SetClock overrides the time source. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// persist writes the whole dataset back to storage. Callers must hold the
// write lock.
func (s *Store) persist() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	if err := s.storage.Set(DatasetKey, string(raw)); err != nil {
		return err
	}
	if s.onChange != nil {
		s.onChange()
	}
	return nil
}

func newID() string {
	return uuid.New().String()
}

func (s *Store) findTicket(id string) *models.Ticket {
	for _, t := range s.data.Tickets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) findUser(id string) *models.User {
	for _, u := range s.data.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) findIdea(id string) *models.Idea {
	for _, i := range s.data.Ideas {
		if i.ID == id {
			return i
		}
	}
	return nil
}

func (s *Store) findRequirement(id string) *models.Requirement {
	for _, r := range s.data.Requirements {
		if r.ID == id {
			return r
		}
	}
	return nil
}
