package dnd

import "github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"

// Direction is a keyboard nudge.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// NudgeTask builds the gesture a pointer drag would produce when moving the
// task one step in dir. Up and down drop it on its neighbour in the same
// column. Left and right drop it on the task at the same row of the
// adjacent column, or on the column itself when that column is shorter.
// ok is false when there is nowhere to go.
func NudgeTask(b model.Board, taskID, columnID string, dir Direction) (g Gesture, ok bool) {
	ci := b.ColumnIndex(columnID)
	if ci < 0 {
		return Gesture{}, false
	}
	row := b[ci].TaskIndex(taskID)
	if row < 0 {
		return Gesture{}, false
	}
	g.Source = TaskSource{TaskID: taskID, OriginColumnID: columnID}

	switch dir {
	case Up, Down:
		col := b[ci]
		next, edge := row-1, EdgeTop
		if dir == Down {
			next, edge = row+1, EdgeBottom
		}
		if next < 0 || next >= len(col.Tasks) {
			return Gesture{}, false
		}
		g.Targets = []Target{TaskTarget(col.Tasks[next].ID, col.ID), ColumnTarget(col.ID)}
		g.Edge = edge
		return g, true

	case Left, Right:
		di := ci - 1
		if dir == Right {
			di = ci + 1
		}
		if di < 0 || di >= len(b) {
			return Gesture{}, false
		}
		dest := b[di]
		if row < len(dest.Tasks) {
			g.Targets = []Target{TaskTarget(dest.Tasks[row].ID, dest.ID), ColumnTarget(dest.ID)}
			g.Edge = EdgeTop
		} else {
			g.Targets = []Target{ColumnTarget(dest.ID)}
		}
		return g, true
	}
	return Gesture{}, false
}

// NudgeColumn builds the gesture for moving a column one step left or right.
func NudgeColumn(b model.Board, columnID string, dir Direction) (g Gesture, ok bool) {
	ci := b.ColumnIndex(columnID)
	if ci < 0 {
		return Gesture{}, false
	}
	di, edge := ci-1, EdgeLeft
	switch dir {
	case Left:
	case Right:
		di, edge = ci+1, EdgeRight
	default:
		return Gesture{}, false
	}
	if di < 0 || di >= len(b) {
		return Gesture{}, false
	}
	return Gesture{
		Source:  ColumnSource{ColumnID: columnID},
		Targets: []Target{ColumnTarget(b[di].ID)},
		Edge:    edge,
	}, true
}
