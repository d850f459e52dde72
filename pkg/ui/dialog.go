package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/board"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

type dialogKind int

const (
	dialogDeleteColumn dialogKind = iota
	dialogMoveSelected
)

// dialog is a modal huh form. Its fields bind to the pointers below, which
// stay valid while the Model is copied around by bubbletea.
type dialog struct {
	kind     dialogKind
	form     *huh.Form
	columnID string // column to delete
	confirm  *bool
	dest     *string
}

func newDeleteColumnDialog(col model.Column) *dialog {
	d := &dialog{kind: dialogDeleteColumn, columnID: col.ID, confirm: new(bool)}
	desc := "The column is empty."
	if n := len(col.Tasks); n > 0 {
		desc = fmt.Sprintf("Its %d task(s) will be deleted too.", n)
	}
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete column %q?", col.Title)).
				Description(desc).
				Affirmative("Delete").
				Negative("Keep").
				Value(d.confirm),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
	return d
}

func newMoveSelectedDialog(b model.Board, count int) *dialog {
	d := &dialog{kind: dialogMoveSelected, dest: new(string)}
	opts := make([]huh.Option[string], 0, len(b))
	for _, c := range b {
		opts = append(opts, huh.NewOption(c.Title, c.ID))
	}
	if len(b) > 0 {
		*d.dest = b[0].ID
	}
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Move %d selected task(s) to", count)).
				Options(opts...).
				Value(d.dest),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
	return d
}

// action is what the completed dialog asks for, or nil.
func (d *dialog) action() board.Action {
	switch d.kind {
	case dialogDeleteColumn:
		if *d.confirm {
			return board.DeleteColumn{ColumnID: d.columnID}
		}
	case dialogMoveSelected:
		if *d.dest != "" {
			return board.MoveSelectedTodos{DestColumnID: *d.dest}
		}
	}
	return nil
}

func (m Model) openDialog(d *dialog) (Model, tea.Cmd) {
	m.dialog = d
	return m, d.form.Init()
}

// updateDialog forwards every message to the open form. Esc closes it.
func (m Model) updateDialog(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.dialog = nil
		m.setStatus("Cancelled")
		return m, nil
	}
	form, cmd := m.dialog.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.dialog.form = f
	}
	switch m.dialog.form.State {
	case huh.StateCompleted:
		d := m.dialog
		m.dialog = nil
		m.finishDialog(d)
		return m, nil
	case huh.StateAborted:
		m.dialog = nil
		m.setStatus("Cancelled")
		return m, nil
	}
	return m, cmd
}

func (m *Model) finishDialog(d *dialog) {
	a := d.action()
	if a == nil {
		m.setStatus("Cancelled")
		return
	}
	m.dispatch(a)
	switch d.kind {
	case dialogDeleteColumn:
		m.setStatus("Column deleted")
	case dialogMoveSelected:
		m.setStatus("Moved selected tasks")
		m.focusColumn(*d.dest)
	}
}
