// Package model defines the board data types shared by the state manager,
// the drop interpreter, persistence and the UI.
package model

import (
	"fmt"
	"strings"
)

// DefaultColumnTitles are the columns of a fresh board.
var DefaultColumnTitles = []string{"To Do", "In Progress", "Done"}

// DefaultBoard returns the three empty columns a new board starts with,
// with ids drawn from newID.
func DefaultBoard(newID func() string) Board {
	b := make(Board, 0, len(DefaultColumnTitles))
	for _, title := range DefaultColumnTitles {
		b = append(b, Column{ID: newID(), Title: title, Tasks: []Task{}})
	}
	return b
}

// Task is a single unit of work on the board.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

// Column is an ordered, named list of tasks. Task order is the display order.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"todos"`
}

// TaskIndex returns the position of the task with the given id, or -1.
func (c Column) TaskIndex(id string) int {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Board is the ordered list of columns, left to right.
type Board []Column

// ColumnIndex returns the position of the column with the given id, or -1.
func (b Board) ColumnIndex(id string) int {
	for i := range b {
		if b[i].ID == id {
			return i
		}
	}
	return -1
}

// Column returns the column with the given id.
func (b Board) Column(id string) (Column, bool) {
	if i := b.ColumnIndex(id); i >= 0 {
		return b[i], true
	}
	return Column{}, false
}

// TaskCount returns the number of tasks across all columns.
func (b Board) TaskCount() int {
	n := 0
	for _, c := range b {
		n += len(c.Tasks)
	}
	return n
}

// Clone returns a deep copy. Nil task lists stay nil.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for i, c := range b {
		out[i] = c
		if c.Tasks != nil {
			out[i].Tasks = append([]Task(nil), c.Tasks...)
		}
	}
	return out
}

// Validate checks the structural invariants of a board: every column and
// task has an id, and no id is used twice anywhere on the board.
func (b Board) Validate() error {
	seen := make(map[string]string)
	for i, c := range b {
		if c.ID == "" {
			return fmt.Errorf("column %d: missing id", i)
		}
		if where, dup := seen[c.ID]; dup {
			return fmt.Errorf("column %d: id %q already used by %s", i, c.ID, where)
		}
		seen[c.ID] = fmt.Sprintf("column %d", i)
		for j, t := range c.Tasks {
			if t.ID == "" {
				return fmt.Errorf("column %q task %d: missing id", c.ID, j)
			}
			if where, dup := seen[t.ID]; dup {
				return fmt.Errorf("column %q task %d: id %q already used by %s", c.ID, j, t.ID, where)
			}
			seen[t.ID] = fmt.Sprintf("task %d of column %q", j, c.ID)
		}
	}
	return nil
}

// SelectionRef addresses a checked task by task and column id.
type SelectionRef struct {
	TaskID   string `json:"id"`
	ColumnID string `json:"columnId"`
}

// Selection is the set of checked tasks. Entries are unique by pair; order is
// the order in which tasks were selected.
type Selection []SelectionRef

// Contains reports whether the pair is selected.
func (s Selection) Contains(taskID, columnID string) bool {
	for _, ref := range s {
		if ref.TaskID == taskID && ref.ColumnID == columnID {
			return true
		}
	}
	return false
}

// Without returns a new selection with every entry matching drop removed.
func (s Selection) Without(drop func(SelectionRef) bool) Selection {
	out := make(Selection, 0, len(s))
	for _, ref := range s {
		if !drop(ref) {
			out = append(out, ref)
		}
	}
	return out
}

// InColumn returns the number of selected entries that point at the column.
func (s Selection) InColumn(columnID string) int {
	n := 0
	for _, ref := range s {
		if ref.ColumnID == columnID {
			n++
		}
	}
	return n
}

// Filter narrows the derived view. It never changes the board itself.
type Filter struct {
	CompletedOnly bool
	SearchText    string
}

// Active reports whether the filter hides anything.
func (f Filter) Active() bool {
	return f.CompletedOnly || f.SearchText != ""
}

// Matches reports whether the task passes the filter: the search text is a
// case-insensitive substring of the description, and completed-only (when
// set) requires the task to be completed.
func (f Filter) Matches(t Task) bool {
	if f.CompletedOnly && !t.IsCompleted {
		return false
	}
	if f.SearchText == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.SearchText))
}

// Apply returns the filtered projection of the board. Every column is kept,
// including ones left without tasks.
func (f Filter) Apply(b Board) Board {
	out := make(Board, len(b))
	for i, c := range b {
		out[i] = Column{ID: c.ID, Title: c.Title, Tasks: make([]Task, 0, len(c.Tasks))}
		for _, t := range c.Tasks {
			if f.Matches(t) {
				out[i].Tasks = append(out[i].Tasks, t)
			}
		}
	}
	return out
}
