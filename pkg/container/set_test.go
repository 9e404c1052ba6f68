package container

import "testing"

// TestSetDedupesOnAdd is spec.md §8 scenario 2.
func TestSetDedupesOnAdd(t *testing.T) {
	s, err := NewSet()
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	s.Add(42, 42)
	s.Add(42, 42)
	s.Add(7, 7)

	if got := s.Count(); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
	if !s.Contains(42) {
		t.Fatal("Contains(42) = false, want true")
	}
	if s.Contains(99) {
		t.Fatal("Contains(99) = true, want false")
	}
}

// TestSetCopyIsIndependent exercises the same copy-independence invariant as
// the dictionary test, for the set shape.
func TestSetCopyIsIndependent(t *testing.T) {
	s, _ := NewSet()
	for i := uintptr(0); i < 50; i++ {
		s.Add(i, i)
	}
	snapshot := s.Copy()
	for i := uintptr(0); i < 25; i++ {
		s.Remove(i)
	}
	if got := snapshot.Count(); got != 50 {
		t.Fatalf("copy Count = %d, want 50", got)
	}
	if got := s.Count(); got != 25 {
		t.Fatalf("source Count = %d, want 25", got)
	}
}

// TestSetMutableCopyRemainsMutable verifies create-mutable-copy actually
// yields a table Add/Remove still work on (spec.md §4.4).
func TestSetMutableCopyRemainsMutable(t *testing.T) {
	s, _ := NewSet()
	s.Add(1, 1)
	mc := s.MutableCopy()
	mc.Add(2, 2)
	if got := mc.Count(); got != 2 {
		t.Fatalf("mutable copy Count after Add = %d, want 2", got)
	}
	if got := s.Count(); got != 1 {
		t.Fatalf("source Count changed by mutating its mutable copy: got %d, want 1", got)
	}
}
