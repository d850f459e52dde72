package board

import (
	"slices"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/ids"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// AddColumn appends an empty column. The title is not validated.
type AddColumn struct {
	Title string
}

func (a AddColumn) apply(s State, gen ids.Generator) (State, bool) {
	col := model.Column{ID: gen.NewID(), Title: a.Title, Tasks: []model.Task{}}
	s.Board = append(slices.Clip(s.Board), col)
	return s, true
}

// DeleteColumn removes a column, its tasks and any selection entries that
// point into it.
type DeleteColumn struct {
	ColumnID string
}

func (a DeleteColumn) apply(s State, _ ids.Generator) (State, bool) {
	ci := s.Board.ColumnIndex(a.ColumnID)
	if ci < 0 {
		return s, false
	}
	s.Board = slices.Delete(slices.Clone(s.Board), ci, ci+1)
	s.Selection = s.Selection.Without(func(r model.SelectionRef) bool {
		return r.ColumnID == a.ColumnID
	})
	return s, true
}

// AddTodo puts a new, open task at the top of a column.
type AddTodo struct {
	Description string
	ColumnID    string
}

func (a AddTodo) apply(s State, gen ids.Generator) (State, bool) {
	ci := s.Board.ColumnIndex(a.ColumnID)
	if ci < 0 {
		return s, false
	}
	col := s.Board[ci]
	tasks := make([]model.Task, 0, len(col.Tasks)+1)
	tasks = append(tasks, model.Task{ID: gen.NewID(), Description: a.Description})
	col.Tasks = append(tasks, col.Tasks...)
	s.Board = withColumn(s.Board, ci, col)
	return s, true
}

// CompleteTodo toggles the completion flag of a task.
type CompleteTodo struct {
	TaskID   string
	ColumnID string
}

func (a CompleteTodo) apply(s State, _ ids.Generator) (State, bool) {
	b, ok := mapColumnTask(s.Board, a.ColumnID, a.TaskID, func(t model.Task) model.Task {
		t.IsCompleted = !t.IsCompleted
		return t
	})
	if !ok {
		return s, false
	}
	s.Board = b
	return s, true
}

// EditTodo replaces the description of a task. Callers discard empty edits
// before dispatching.
type EditTodo struct {
	TaskID      string
	ColumnID    string
	Description string
}

func (a EditTodo) apply(s State, _ ids.Generator) (State, bool) {
	b, ok := mapColumnTask(s.Board, a.ColumnID, a.TaskID, func(t model.Task) model.Task {
		t.Description = a.Description
		return t
	})
	if !ok {
		return s, false
	}
	s.Board = b
	return s, true
}

// RemoveTodo deletes a task and unselects it.
type RemoveTodo struct {
	TaskID   string
	ColumnID string
}

func (a RemoveTodo) apply(s State, _ ids.Generator) (State, bool) {
	ci := s.Board.ColumnIndex(a.ColumnID)
	if ci < 0 {
		return s, false
	}
	col := s.Board[ci]
	ti := col.TaskIndex(a.TaskID)
	if ti < 0 {
		return s, false
	}
	col.Tasks = slices.Delete(slices.Clone(col.Tasks), ti, ti+1)
	s.Board = withColumn(s.Board, ci, col)
	s.Selection = s.Selection.Without(func(r model.SelectionRef) bool {
		return r.TaskID == a.TaskID
	})
	return s, true
}

// MoveTodo takes a task out of its source column and inserts it into the
// destination column at Index, or at the end when Index is nil. Index is
// clamped to the destination list. A move within one column behaves like a
// reorder. The task's selection entry follows it to the destination.
type MoveTodo struct {
	TaskID         string
	SourceColumnID string
	DestColumnID   string
	Index          *int
}

// At is a convenience for building MoveTodo.Index.
func At(i int) *int { return &i }

func (a MoveTodo) apply(s State, _ ids.Generator) (State, bool) {
	si := s.Board.ColumnIndex(a.SourceColumnID)
	di := s.Board.ColumnIndex(a.DestColumnID)
	if si < 0 || di < 0 {
		return s, false
	}
	src := s.Board[si]
	ti := src.TaskIndex(a.TaskID)
	if ti < 0 {
		return s, false
	}
	task := src.Tasks[ti]

	if si == di {
		finish := len(src.Tasks) - 1
		if a.Index != nil {
			finish = *a.Index
		}
		tasks, _ := reorder(src.Tasks, ti, finish)
		src.Tasks = tasks
		s.Board = withColumn(s.Board, si, src)
		return s, true
	}

	src.Tasks = slices.Delete(slices.Clone(src.Tasks), ti, ti+1)
	dst := s.Board[di]
	at := len(dst.Tasks)
	if a.Index != nil {
		at = clamp(*a.Index, 0, len(dst.Tasks))
	}
	dst.Tasks = slices.Insert(slices.Clone(dst.Tasks), at, task)

	b := slices.Clone(s.Board)
	b[si] = src
	b[di] = dst
	s.Board = b

	sel := make(model.Selection, len(s.Selection))
	for i, ref := range s.Selection {
		if ref.TaskID == a.TaskID && ref.ColumnID == a.SourceColumnID {
			ref.ColumnID = a.DestColumnID
		}
		sel[i] = ref
	}
	s.Selection = sel
	return s, true
}

// ReorderTodo moves the task at StartIndex to FinishIndex within one column.
// FinishIndex addresses the list after the task has been taken out, which
// is list-splice semantics rather than a swap.
type ReorderTodo struct {
	ColumnID    string
	StartIndex  int
	FinishIndex int
}

func (a ReorderTodo) apply(s State, _ ids.Generator) (State, bool) {
	ci := s.Board.ColumnIndex(a.ColumnID)
	if ci < 0 {
		return s, false
	}
	col := s.Board[ci]
	tasks, ok := reorder(col.Tasks, a.StartIndex, a.FinishIndex)
	if !ok {
		return s, false
	}
	col.Tasks = tasks
	s.Board = withColumn(s.Board, ci, col)
	return s, true
}

// ReorderColumns moves the column at StartIndex to FinishIndex.
//
// Selection entries of the columns at StartIndex and FinishIndex are
// dropped; columns shifted in between keep theirs. Out-of-range indices and
// a move onto itself are no-ops.
type ReorderColumns struct {
	StartIndex  int
	FinishIndex int
}

func (a ReorderColumns) apply(s State, _ ids.Generator) (State, bool) {
	n := len(s.Board)
	if a.StartIndex < 0 || a.StartIndex >= n || a.FinishIndex < 0 || a.FinishIndex >= n {
		return s, false
	}
	if a.StartIndex == a.FinishIndex {
		return s, false
	}
	startID := s.Board[a.StartIndex].ID
	finishID := s.Board[a.FinishIndex].ID

	b, _ := reorder(s.Board, a.StartIndex, a.FinishIndex)
	s.Board = b
	s.Selection = s.Selection.Without(func(r model.SelectionRef) bool {
		return r.ColumnID == startID || r.ColumnID == finishID
	})
	return s, true
}

// ToggleSelectTodo checks or unchecks one task.
type ToggleSelectTodo struct {
	TaskID   string
	ColumnID string
}

func (a ToggleSelectTodo) apply(s State, _ ids.Generator) (State, bool) {
	if s.Selection.Contains(a.TaskID, a.ColumnID) {
		s.Selection = s.Selection.Without(func(r model.SelectionRef) bool {
			return r.TaskID == a.TaskID && r.ColumnID == a.ColumnID
		})
		return s, false
	}
	col, ok := s.Board.Column(a.ColumnID)
	if !ok || col.TaskIndex(a.TaskID) < 0 {
		return s, false
	}
	s.Selection = append(slices.Clip(s.Selection), model.SelectionRef{TaskID: a.TaskID, ColumnID: a.ColumnID})
	return s, false
}

// SelectAllTodosInColumn replaces the column's selection with every task of
// that column that passes the current filter.
type SelectAllTodosInColumn struct {
	ColumnID string
}

func (a SelectAllTodosInColumn) apply(s State, _ ids.Generator) (State, bool) {
	col, ok := s.Board.Column(a.ColumnID)
	if !ok {
		return s, false
	}
	sel := s.Selection.Without(func(r model.SelectionRef) bool {
		return r.ColumnID == a.ColumnID
	})
	for _, t := range col.Tasks {
		if s.Filter.Matches(t) {
			sel = append(sel, model.SelectionRef{TaskID: t.ID, ColumnID: col.ID})
		}
	}
	s.Selection = sel
	return s, false
}

// DeselectAllTodosInColumn drops the column's selection entries.
type DeselectAllTodosInColumn struct {
	ColumnID string
}

func (a DeselectAllTodosInColumn) apply(s State, _ ids.Generator) (State, bool) {
	s.Selection = s.Selection.Without(func(r model.SelectionRef) bool {
		return r.ColumnID == a.ColumnID
	})
	return s, false
}

// SelectAllTodos replaces the selection with every task that passes the
// current filter.
type SelectAllTodos struct{}

func (SelectAllTodos) apply(s State, _ ids.Generator) (State, bool) {
	sel := make(model.Selection, 0, s.Board.TaskCount())
	for _, c := range s.Board {
		for _, t := range c.Tasks {
			if s.Filter.Matches(t) {
				sel = append(sel, model.SelectionRef{TaskID: t.ID, ColumnID: c.ID})
			}
		}
	}
	s.Selection = sel
	return s, false
}

// DeselectAllTodos clears the selection.
type DeselectAllTodos struct{}

func (DeselectAllTodos) apply(s State, _ ids.Generator) (State, bool) {
	s.Selection = model.Selection{}
	return s, false
}

// DeleteSelectedTodos removes every selected task and clears the selection.
type DeleteSelectedTodos struct{}

func (DeleteSelectedTodos) apply(s State, _ ids.Generator) (State, bool) {
	if len(s.Selection) == 0 {
		return s, false
	}
	b := make(model.Board, len(s.Board))
	changed := false
	for i, c := range s.Board {
		kept := make([]model.Task, 0, len(c.Tasks))
		for _, t := range c.Tasks {
			if s.Selection.Contains(t.ID, c.ID) {
				changed = true
				continue
			}
			kept = append(kept, t)
		}
		c.Tasks = kept
		b[i] = c
	}
	s.Selection = model.Selection{}
	if !changed {
		return s, false
	}
	s.Board = b
	return s, true
}

// CompleteSelectedTodos marks every selected task completed.
type CompleteSelectedTodos struct{}

func (CompleteSelectedTodos) apply(s State, _ ids.Generator) (State, bool) {
	return setSelectedCompleted(s, true)
}

// IncompleteSelectedTodos marks every selected task open.
type IncompleteSelectedTodos struct{}

func (IncompleteSelectedTodos) apply(s State, _ ids.Generator) (State, bool) {
	return setSelectedCompleted(s, false)
}

func setSelectedCompleted(s State, done bool) (State, bool) {
	if len(s.Selection) == 0 {
		return s, false
	}
	b := make(model.Board, len(s.Board))
	changed := false
	for i, c := range s.Board {
		tasks := make([]model.Task, len(c.Tasks))
		for j, t := range c.Tasks {
			if s.Selection.Contains(t.ID, c.ID) && t.IsCompleted != done {
				t.IsCompleted = done
				changed = true
			}
			tasks[j] = t
		}
		c.Tasks = tasks
		b[i] = c
	}
	if !changed {
		return s, false
	}
	s.Board = b
	return s, true
}

// MoveSelectedTodos appends every selected task to the destination column,
// in selection order. Tasks already in the destination stay where they are.
// Afterwards every selection entry points at the destination.
type MoveSelectedTodos struct {
	DestColumnID string
}

func (a MoveSelectedTodos) apply(s State, _ ids.Generator) (State, bool) {
	di := s.Board.ColumnIndex(a.DestColumnID)
	if di < 0 {
		return s, false
	}
	b := s.Board
	changed := false
	for _, ref := range s.Selection {
		if ref.ColumnID == a.DestColumnID {
			continue
		}
		si := b.ColumnIndex(ref.ColumnID)
		if si < 0 {
			continue
		}
		src := b[si]
		ti := src.TaskIndex(ref.TaskID)
		if ti < 0 {
			continue
		}
		task := src.Tasks[ti]
		src.Tasks = slices.Delete(slices.Clone(src.Tasks), ti, ti+1)
		dst := b[di]
		dst.Tasks = append(slices.Clone(dst.Tasks), task)

		b = slices.Clone(b)
		b[si] = src
		b[di] = dst
		changed = true
	}
	s.Board = b

	sel := make(model.Selection, len(s.Selection))
	for i, ref := range s.Selection {
		ref.ColumnID = a.DestColumnID
		sel[i] = ref
	}
	s.Selection = pruneSelection(s.Board, sel)
	return s, changed
}

// ToggleFilter flips the completed-only filter.
type ToggleFilter struct{}

func (ToggleFilter) apply(s State, _ ids.Generator) (State, bool) {
	s.Filter.CompletedOnly = !s.Filter.CompletedOnly
	return s, false
}

// SetSearch sets the search text of the filter.
type SetSearch struct {
	Text string
}

func (a SetSearch) apply(s State, _ ids.Generator) (State, bool) {
	s.Filter.SearchText = a.Text
	return s, false
}

// Replace swaps in a board that was loaded from storage, for example after
// another process edited it. Selection entries that no longer resolve are
// dropped; the filter is kept.
type Replace struct {
	Board model.Board
}

func (a Replace) apply(s State, _ ids.Generator) (State, bool) {
	b := a.Board
	if b == nil {
		b = model.Board{}
	}
	s.Board = b
	s.Selection = pruneSelection(b, s.Selection)
	// The board came from storage; writing it straight back is pointless.
	return s, false
}
