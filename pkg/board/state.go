// Package board is the state manager for the kanban board.
//
// The board, the selection and the filter live in an immutable State value.
// Every operation is an Action; Reduce applies one Action to a State and
// returns the next State without touching the previous one. Columns and task
// lists that an action changes are copied, the rest are shared, so a reader
// holding an old State never sees a half-applied update.
//
// Actions that reference a column or task that does not exist are no-ops.
// Nothing in this package returns an error.
package board

import (
	"slices"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/ids"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// State is one snapshot of the board, the selection and the filter.
type State struct {
	Board     model.Board
	Selection model.Selection
	Filter    model.Filter
}

// NewState returns a state over the given board with nothing selected and
// no filter.
func NewState(b model.Board) State {
	if b == nil {
		b = model.Board{}
	}
	return State{Board: b, Selection: model.Selection{}}
}

// DefaultBoard returns the three empty columns a new board starts with.
func DefaultBoard(gen ids.Generator) model.Board {
	return model.DefaultBoard(gen.NewID)
}

// View returns the derived, filtered projection of the board. It is
// recomputed from Board and Filter on every call.
func (s State) View() model.Board {
	return s.Filter.Apply(s.Board)
}

// IsSelected reports whether the task is checked in the given column.
func (s State) IsSelected(taskID, columnID string) bool {
	return s.Selection.Contains(taskID, columnID)
}

// Action is a single state transition. The set of actions is closed; see
// actions.go.
type Action interface {
	// apply returns the next state and whether the board (the persisted
	// part of the state) changed.
	apply(s State, gen ids.Generator) (State, bool)
}

// Reduce applies a to s. A nil action returns s unchanged.
func Reduce(s State, a Action, gen ids.Generator) State {
	next, _ := reduce(s, a, gen)
	return next
}

func reduce(s State, a Action, gen ids.Generator) (State, bool) {
	if a == nil {
		return s, false
	}
	if gen == nil {
		gen = ids.UUID{}
	}
	return a.apply(s, gen)
}

// withColumn returns a copy of b with column i replaced.
func withColumn(b model.Board, i int, c model.Column) model.Board {
	out := slices.Clone(b)
	out[i] = c
	return out
}

// mapColumnTask rewrites the task with taskID inside columnID. It reports
// false when either does not exist.
func mapColumnTask(b model.Board, columnID, taskID string, fn func(model.Task) model.Task) (model.Board, bool) {
	ci := b.ColumnIndex(columnID)
	if ci < 0 {
		return b, false
	}
	col := b[ci]
	ti := col.TaskIndex(taskID)
	if ti < 0 {
		return b, false
	}
	tasks := slices.Clone(col.Tasks)
	tasks[ti] = fn(tasks[ti])
	col.Tasks = tasks
	return withColumn(b, ci, col), true
}

// reorder removes the element at start and inserts it at finish, where
// finish is an index into the list after the removal. An out-of-range start
// leaves the list alone; finish is clamped into range.
func reorder[T any](list []T, start, finish int) ([]T, bool) {
	if start < 0 || start >= len(list) {
		return list, false
	}
	removed := list[start]
	out := make([]T, 0, len(list))
	out = append(out, list[:start]...)
	out = append(out, list[start+1:]...)
	finish = clamp(finish, 0, len(out))
	out = slices.Insert(out, finish, removed)
	return out, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// pruneSelection drops entries whose (task, column) pair is no longer on the
// board and collapses duplicates.
func pruneSelection(b model.Board, sel model.Selection) model.Selection {
	where := make(map[string]string, b.TaskCount())
	for _, c := range b {
		for _, t := range c.Tasks {
			where[t.ID] = c.ID
		}
	}
	out := make(model.Selection, 0, len(sel))
	for _, ref := range sel {
		if where[ref.TaskID] != ref.ColumnID || out.Contains(ref.TaskID, ref.ColumnID) {
			continue
		}
		out = append(out, ref)
	}
	return out
}
