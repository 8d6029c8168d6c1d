// Package storage is the persistence boundary: a key-value collaborator
// holding string values under string keys. The application keeps its whole
// dataset as one JSON document under a single fixed key and rewrites it
// wholesale on every mutation, so the contract is just Get and Set.
package storage

import "sync"

type Storage interface {
	// Get returns the value for key. The second result is false when the
	// key has never been written.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Close() error
}

// Memory is an in-memory Storage used by tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Close() error {
	return nil
}
