package ids

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDUnique(t *testing.T) {
	var g UUID
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.NewID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("not a uuid: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence("task")
	if got := s.NewID(); got != "task-1" {
		t.Errorf("first id = %q", got)
	}
	if got := s.NewID(); got != "task-2" {
		t.Errorf("second id = %q", got)
	}

	var zero Sequence
	if got := zero.NewID(); got != "id-1" {
		t.Errorf("zero value id = %q", got)
	}
}

func TestFunc(t *testing.T) {
	g := Func(func() string { return "fixed" })
	if g.NewID() != "fixed" {
		t.Error("Func did not delegate")
	}
}
