package dnd_test

import (
	"fmt"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/board"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/dnd"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// fixture: c1 [a b c d], c2 [x y], c3 [].
func fixture() model.Board {
	mk := func(ids ...string) []model.Task {
		out := make([]model.Task, 0, len(ids))
		for _, id := range ids {
			out = append(out, model.Task{ID: id, Description: id})
		}
		return out
	}
	return model.Board{
		{ID: "c1", Title: "To Do", Tasks: mk("a", "b", "c", "d")},
		{ID: "c2", Title: "Doing", Tasks: mk("x", "y")},
		{ID: "c3", Title: "Done", Tasks: mk()},
	}
}

func TestReorderDestination(t *testing.T) {
	tests := []struct {
		start, target int
		edge          dnd.Edge
		axis          dnd.Axis
		want          int
	}{
		{-1, 2, dnd.EdgeTop, dnd.Vertical, -1},
		{1, -1, dnd.EdgeTop, dnd.Vertical, 1},
		{2, 2, dnd.EdgeBottom, dnd.Vertical, 2},
		{0, 3, dnd.EdgeNone, dnd.Vertical, 3},
		{0, 3, dnd.EdgeTop, dnd.Vertical, 2},
		{0, 3, dnd.EdgeBottom, dnd.Vertical, 3},
		{3, 0, dnd.EdgeTop, dnd.Vertical, 0},
		{3, 0, dnd.EdgeBottom, dnd.Vertical, 1},
		{0, 2, dnd.EdgeRight, dnd.Horizontal, 2},
		{0, 2, dnd.EdgeLeft, dnd.Horizontal, 1},
		{2, 0, dnd.EdgeRight, dnd.Horizontal, 1},
		// A bottom edge means nothing on a horizontal list.
		{0, 2, dnd.EdgeBottom, dnd.Horizontal, 1},
	}
	for _, tt := range tests {
		got := dnd.ReorderDestination(tt.start, tt.target, tt.edge, tt.axis)
		if got != tt.want {
			t.Errorf("ReorderDestination(%d, %d, %s, %d) = %d, want %d", tt.start, tt.target, tt.edge, tt.axis, got, tt.want)
		}
	}
}

func TestInterpret(t *testing.T) {
	task := func(id, col string) dnd.Source { return dnd.TaskSource{TaskID: id, OriginColumnID: col} }
	column := func(id string) dnd.Source { return dnd.ColumnSource{ColumnID: id} }

	tests := []struct {
		name string
		g    dnd.Gesture
		want board.Action
	}{
		{
			name: "no targets",
			g:    dnd.Gesture{Source: task("a", "c1")},
			want: nil,
		},
		{
			name: "task onto own column goes last",
			g:    dnd.Gesture{Source: task("a", "c1"), Targets: []dnd.Target{dnd.ColumnTarget("c1")}},
			want: board.ReorderTodo{ColumnID: "c1", StartIndex: 0, FinishIndex: 3},
		},
		{
			name: "last task onto own column stays",
			g:    dnd.Gesture{Source: task("d", "c1"), Targets: []dnd.Target{dnd.ColumnTarget("c1")}},
			want: nil,
		},
		{
			name: "task onto other column appends",
			g:    dnd.Gesture{Source: task("b", "c1"), Targets: []dnd.Target{dnd.ColumnTarget("c3")}},
			want: board.MoveTodo{TaskID: "b", SourceColumnID: "c1", DestColumnID: "c3"},
		},
		{
			name: "task onto lower sibling top edge",
			g: dnd.Gesture{Source: task("a", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("c", "c1"), dnd.ColumnTarget("c1")}, Edge: dnd.EdgeTop},
			want: board.ReorderTodo{ColumnID: "c1", StartIndex: 0, FinishIndex: 1},
		},
		{
			name: "task onto lower sibling bottom edge",
			g: dnd.Gesture{Source: task("a", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("c", "c1"), dnd.ColumnTarget("c1")}, Edge: dnd.EdgeBottom},
			want: board.ReorderTodo{ColumnID: "c1", StartIndex: 0, FinishIndex: 2},
		},
		{
			name: "task onto upper sibling bottom edge",
			g: dnd.Gesture{Source: task("d", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("a", "c1"), dnd.ColumnTarget("c1")}, Edge: dnd.EdgeBottom},
			want: board.ReorderTodo{ColumnID: "c1", StartIndex: 3, FinishIndex: 1},
		},
		{
			name: "task onto neighbour edge that keeps it in place",
			g: dnd.Gesture{Source: task("a", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("b", "c1"), dnd.ColumnTarget("c1")}, Edge: dnd.EdgeTop},
			want: nil,
		},
		{
			name: "task onto itself",
			g: dnd.Gesture{Source: task("b", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("b", "c1"), dnd.ColumnTarget("c1")}, Edge: dnd.EdgeBottom},
			want: nil,
		},
		{
			name: "task onto task in other column top edge",
			g: dnd.Gesture{Source: task("a", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("y", "c2"), dnd.ColumnTarget("c2")}, Edge: dnd.EdgeTop},
			want: board.MoveTodo{TaskID: "a", SourceColumnID: "c1", DestColumnID: "c2", Index: board.At(1)},
		},
		{
			name: "task onto task in other column bottom edge",
			g: dnd.Gesture{Source: task("a", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("y", "c2"), dnd.ColumnTarget("c2")}, Edge: dnd.EdgeBottom},
			want: board.MoveTodo{TaskID: "a", SourceColumnID: "c1", DestColumnID: "c2", Index: board.At(2)},
		},
		{
			name: "unknown target task",
			g: dnd.Gesture{Source: task("a", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("zzz", "c2"), dnd.ColumnTarget("c2")}, Edge: dnd.EdgeTop},
			want: nil,
		},
		{
			name: "unknown source",
			g:    dnd.Gesture{Source: task("zzz", "c1"), Targets: []dnd.Target{dnd.ColumnTarget("c2")}},
			want: nil,
		},
		{
			name: "too many targets",
			g: dnd.Gesture{Source: task("a", "c1"),
				Targets: []dnd.Target{dnd.TaskTarget("x", "c2"), dnd.ColumnTarget("c2"), dnd.ColumnTarget("c3")}},
			want: nil,
		},
		{
			name: "column right edge moving left",
			g:    dnd.Gesture{Source: column("c3"), Targets: []dnd.Target{dnd.ColumnTarget("c1")}, Edge: dnd.EdgeRight},
			want: board.ReorderColumns{StartIndex: 2, FinishIndex: 1},
		},
		{
			name: "column left edge moving right",
			g:    dnd.Gesture{Source: column("c1"), Targets: []dnd.Target{dnd.ColumnTarget("c3")}, Edge: dnd.EdgeLeft},
			want: board.ReorderColumns{StartIndex: 0, FinishIndex: 1},
		},
		{
			name: "column no edge",
			g:    dnd.Gesture{Source: column("c1"), Targets: []dnd.Target{dnd.ColumnTarget("c3")}},
			want: board.ReorderColumns{StartIndex: 0, FinishIndex: 2},
		},
		{
			name: "column onto neighbour near edge stays",
			g:    dnd.Gesture{Source: column("c1"), Targets: []dnd.Target{dnd.ColumnTarget("c2")}, Edge: dnd.EdgeLeft},
			want: nil,
		},
		{
			name: "column onto itself",
			g:    dnd.Gesture{Source: column("c2"), Targets: []dnd.Target{dnd.ColumnTarget("c2")}, Edge: dnd.EdgeRight},
			want: nil,
		},
		{
			name: "column dropped over a card uses the card's column",
			g: dnd.Gesture{Source: column("c1"),
				Targets: []dnd.Target{dnd.TaskTarget("x", "c2"), dnd.ColumnTarget("c2")}, Edge: dnd.EdgeBottom},
			want: board.ReorderColumns{StartIndex: 0, FinishIndex: 1},
		},
		{
			name: "unknown column",
			g:    dnd.Gesture{Source: column("zzz"), Targets: []dnd.Target{dnd.ColumnTarget("c1")}},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dnd.Interpret(fixture(), tt.g)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Interpret = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestInterpretAgainstFullBoardWhileFiltered(t *testing.T) {
	b := fixture()
	b[0].Tasks[1].IsCompleted = true // b
	b[0].Tasks[3].IsCompleted = true // d

	// With completed-only on, the view of c1 is [b d]; d is at index 1 in
	// the view but 3 on the board.
	g := dnd.Gesture{
		Source:  dnd.TaskSource{TaskID: "d", OriginColumnID: "c1"},
		Targets: []dnd.Target{dnd.TaskTarget("b", "c1"), dnd.ColumnTarget("c1")},
		Edge:    dnd.EdgeTop,
	}
	got := dnd.Interpret(b, g)
	want := board.ReorderTodo{ColumnID: "c1", StartIndex: 3, FinishIndex: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Interpret = %#v, want %#v", got, want)
	}
}

func taskOrder(b model.Board, col string) []string {
	c, _ := b.Column(col)
	out := make([]string, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		out = append(out, t.ID)
	}
	return out
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

// Dropping on a card's top edge lands the task right above that card, and on
// its bottom edge right below, in the same column or another one.
func TestPropertyDropLandsNextToTarget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := fixture()
		all := []struct{ id, col string }{{"a", "c1"}, {"b", "c1"}, {"c", "c1"}, {"d", "c1"}, {"x", "c2"}, {"y", "c2"}}
		src := rapid.SampledFrom(all).Draw(t, "src")
		dst := rapid.SampledFrom(all).Draw(t, "dst")
		if src.id == dst.id {
			return
		}
		edge := rapid.SampledFrom([]dnd.Edge{dnd.EdgeTop, dnd.EdgeBottom}).Draw(t, "edge")

		g := dnd.Gesture{
			Source:  dnd.TaskSource{TaskID: src.id, OriginColumnID: src.col},
			Targets: []dnd.Target{dnd.TaskTarget(dst.id, dst.col), dnd.ColumnTarget(dst.col)},
			Edge:    edge,
		}
		s := board.Reduce(board.NewState(b), dnd.Interpret(b, g), nil)

		order := taskOrder(s.Board, dst.col)
		di, ti := indexOf(order, src.id), indexOf(order, dst.id)
		if di < 0 {
			t.Fatalf("%s not in %s after drop: %v", src.id, dst.col, order)
		}
		want := ti - 1
		if edge == dnd.EdgeBottom {
			want = ti + 1
		}
		if di != want {
			t.Fatalf("drop %s on %s %s: order %v", src.id, edge, dst.id, order)
		}
	})
}

func TestNudgeTask(t *testing.T) {
	b := fixture()
	apply := func(taskID, col string, dir dnd.Direction) (model.Board, bool) {
		g, ok := dnd.NudgeTask(b, taskID, col, dir)
		if !ok {
			return b, false
		}
		return board.Reduce(board.NewState(b), dnd.Interpret(b, g), nil).Board, true
	}

	if got, _ := apply("b", "c1", dnd.Down); fmt.Sprint(taskOrder(got, "c1")) != "[a c b d]" {
		t.Errorf("down: %v", taskOrder(got, "c1"))
	}
	if got, _ := apply("b", "c1", dnd.Up); fmt.Sprint(taskOrder(got, "c1")) != "[b a c d]" {
		t.Errorf("up: %v", taskOrder(got, "c1"))
	}
	if _, ok := apply("a", "c1", dnd.Up); ok {
		t.Error("first task cannot move up")
	}
	if _, ok := apply("a", "c1", dnd.Left); ok {
		t.Error("first column has no left neighbour")
	}

	got, _ := apply("b", "c1", dnd.Right)
	if fmt.Sprint(taskOrder(got, "c2")) != "[x b y]" {
		t.Errorf("right onto same row: %v", taskOrder(got, "c2"))
	}
	got, _ = apply("d", "c1", dnd.Right)
	if fmt.Sprint(taskOrder(got, "c2")) != "[x y d]" {
		t.Errorf("right past the end appends: %v", taskOrder(got, "c2"))
	}
	got, _ = apply("x", "c2", dnd.Right)
	if fmt.Sprint(taskOrder(got, "c3")) != "[x]" {
		t.Errorf("right into empty column: %v", taskOrder(got, "c3"))
	}
}

func TestNudgeColumn(t *testing.T) {
	b := fixture()
	ids := func(b model.Board) string {
		var out []string
		for _, c := range b {
			out = append(out, c.ID)
		}
		return fmt.Sprint(out)
	}

	g, ok := dnd.NudgeColumn(b, "c1", dnd.Right)
	if !ok {
		t.Fatal("expected a gesture")
	}
	if got := ids(board.Reduce(board.NewState(b), dnd.Interpret(b, g), nil).Board); got != "[c2 c1 c3]" {
		t.Errorf("right: %s", got)
	}

	g, _ = dnd.NudgeColumn(b, "c3", dnd.Left)
	if got := ids(board.Reduce(board.NewState(b), dnd.Interpret(b, g), nil).Board); got != "[c1 c3 c2]" {
		t.Errorf("left: %s", got)
	}

	if _, ok := dnd.NudgeColumn(b, "c3", dnd.Right); ok {
		t.Error("last column cannot move right")
	}
	if _, ok := dnd.NudgeColumn(b, "c1", dnd.Up); ok {
		t.Error("columns only move sideways")
	}
}
