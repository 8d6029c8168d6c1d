package storage

import "testing"

func TestSQLiteGetSet(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	defer s.Close()

	// 1. Missing key
	_, ok, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if ok {
		t.Errorf("Expected ok=false for missing key")
	}

	// 2. Set and read back
	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	v, ok, err := s.Get("k")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if !ok || v != "v1" {
		t.Errorf("Expected v1, got %q (ok=%v)", v, ok)
	}

	// 3. Overwrite wins
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("Failed to overwrite: %v", err)
	}
	v, _, err = s.Get("k")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if v != "v2" {
		t.Errorf("Expected v2, got %q", v)
	}
}

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()

	if _, ok, _ := m.Get("missing"); ok {
		t.Errorf("Expected ok=false for missing key")
	}
	if err := m.Set("k", "v"); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	v, ok, _ := m.Get("k")
	if !ok || v != "v" {
		t.Errorf("Expected v, got %q (ok=%v)", v, ok)
	}
}
