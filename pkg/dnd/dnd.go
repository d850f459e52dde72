// Package dnd turns a finished drag gesture into a board action.
//
// A gesture names what was dragged (a task or a column), the drop targets
// under the pointer when it was released, innermost first, and the edge of
// the innermost target closest to the pointer. Interpret resolves the
// targets against the board and returns a ReorderTodo, MoveTodo or
// ReorderColumns action, or nil when the drop does nothing.
package dnd

import (
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/board"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// Edge is the side of a drop target nearest to the pointer.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "none"
	}
}

// Axis is the direction a list is laid out in.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Source is the dragged element: a TaskSource or a ColumnSource.
type Source interface {
	isSource()
}

// TaskSource is a dragged task and the column it was picked up from.
type TaskSource struct {
	TaskID         string
	OriginColumnID string
}

// ColumnSource is a dragged column.
type ColumnSource struct {
	ColumnID string
}

func (TaskSource) isSource()   {}
func (ColumnSource) isSource() {}

// TargetKind tells task drop targets from column drop targets.
type TargetKind int

const (
	TargetColumn TargetKind = iota
	TargetTask
)

// Target is one drop target under the pointer. Task targets carry the id of
// the column they sit in.
type Target struct {
	Kind     TargetKind
	ColumnID string
	TaskID   string
}

// ColumnTarget returns a column drop target.
func ColumnTarget(columnID string) Target {
	return Target{Kind: TargetColumn, ColumnID: columnID}
}

// TaskTarget returns a task drop target.
func TaskTarget(taskID, columnID string) Target {
	return Target{Kind: TargetTask, ColumnID: columnID, TaskID: taskID}
}

// Gesture is a completed drag.
type Gesture struct {
	Source Source
	// Targets lists the drop targets, innermost first: a task and then its
	// column, or just a column.
	Targets []Target
	// Edge is the closest edge of Targets[0].
	Edge Edge
}

// ReorderDestination returns the index a list item should move to when it
// is dropped on the item at target, closest to the given edge. It follows
// remove-then-insert semantics: the result indexes the list after the
// dragged item has been taken out.
func ReorderDestination(start, target int, edge Edge, axis Axis) int {
	if start == -1 || target == -1 {
		return start
	}
	if start == target {
		return start
	}
	if edge == EdgeNone {
		return target
	}
	after := (axis == Vertical && edge == EdgeBottom) || (axis == Horizontal && edge == EdgeRight)
	if start < target {
		if after {
			return target
		}
		return target - 1
	}
	if after {
		return target + 1
	}
	return target
}

// Interpret maps a gesture to the action it implies. Indices are computed
// against the full board, not a filtered view. It returns nil for drops
// with no targets, unknown ids, unexpected target shapes and drops that
// would leave everything in place.
func Interpret(b model.Board, g Gesture) board.Action {
	if len(g.Targets) == 0 {
		return nil
	}
	switch src := g.Source.(type) {
	case TaskSource:
		return interpretTask(b, src, g)
	case ColumnSource:
		return interpretColumn(b, src, g)
	default:
		return nil
	}
}

func interpretTask(b model.Board, src TaskSource, g Gesture) board.Action {
	srcCol, ok := b.Column(src.OriginColumnID)
	if !ok {
		return nil
	}
	start := srcCol.TaskIndex(src.TaskID)
	if start < 0 {
		return nil
	}

	switch len(g.Targets) {
	case 1:
		destID := g.Targets[0].ColumnID
		if _, ok := b.Column(destID); !ok {
			return nil
		}
		if destID == srcCol.ID {
			finish := ReorderDestination(start, len(srcCol.Tasks)-1, EdgeNone, Vertical)
			return reorderTodo(srcCol.ID, start, finish)
		}
		return board.MoveTodo{TaskID: src.TaskID, SourceColumnID: srcCol.ID, DestColumnID: destID}

	case 2:
		onto := g.Targets[0]
		if onto.Kind != TargetTask || onto.TaskID == src.TaskID {
			return nil
		}
		destID := g.Targets[1].ColumnID
		dest, ok := b.Column(destID)
		if !ok {
			return nil
		}
		target := dest.TaskIndex(onto.TaskID)
		if target < 0 {
			return nil
		}
		if destID == srcCol.ID {
			return reorderTodo(srcCol.ID, start, ReorderDestination(start, target, g.Edge, Vertical))
		}
		if g.Edge == EdgeBottom {
			target++
		}
		return board.MoveTodo{TaskID: src.TaskID, SourceColumnID: srcCol.ID, DestColumnID: destID, Index: board.At(target)}
	}
	return nil
}

func reorderTodo(columnID string, start, finish int) board.Action {
	if start == finish {
		return nil
	}
	return board.ReorderTodo{ColumnID: columnID, StartIndex: start, FinishIndex: finish}
}

func interpretColumn(b model.Board, src ColumnSource, g Gesture) board.Action {
	start := b.ColumnIndex(src.ColumnID)
	if start < 0 {
		return nil
	}

	pos := -1
	for i, t := range g.Targets {
		if t.Kind == TargetColumn {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil
	}
	target := b.ColumnIndex(g.Targets[pos].ColumnID)
	if target < 0 {
		return nil
	}
	edge := EdgeNone
	if pos == 0 {
		edge = g.Edge
	}

	finish := target
	switch {
	case edge == EdgeRight && start > target:
		finish = target + 1
	case edge == EdgeLeft && start < target:
		finish = target - 1
	}
	if finish == start || finish < 0 || finish >= len(b) {
		return nil
	}
	return board.ReorderColumns{StartIndex: start, FinishIndex: finish}
}
