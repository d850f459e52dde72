// Package ids produces the opaque identifiers assigned to new tasks and
// columns.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a new globally unique id on every call.
type Generator interface {
	NewID() string
}

// UUID generates random (v4) UUID strings.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence yields "<prefix>-1", "<prefix>-2", ... and is meant for tests and
// reproducible output. The zero value uses the prefix "id".
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

// NewSequence returns a sequence with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

// NewID implements Generator.
func (s *Sequence) NewID() string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}

// Func adapts a plain function to Generator.
type Func func() string

// NewID implements Generator.
func (f Func) NewID() string { return f() }
