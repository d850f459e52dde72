// Package ui is the terminal front end: a bubbletea program that renders the
// board, turns keys and mouse drags into board actions and dispatches them
// through a board.Manager.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/board"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/config"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/debug"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/dnd"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/watcher"
)

type mode int

const (
	modeBoard mode = iota
	modeInput
)

type inputKind int

const (
	inputAddTask inputKind = iota
	inputAddColumn
	inputEdit
	inputSearch
)

// FileChangedMsg is sent when the stored board changes on disk.
type FileChangedMsg struct{}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// drag is a pointer drag in progress.
type drag struct {
	source     dnd.Source
	label      string
	startX     int
	startY     int
	over       hit
	moved      bool
	fromColumn string
}

// Model is the bubbletea model for the board.
type Model struct {
	ctx     context.Context
	mgr     *board.Manager
	cfg     config.UIConfig
	watcher *watcher.Watcher
	theme   Theme
	keys    keyMap
	help    help.Model

	width, height int

	col       int            // focused view column
	rows      map[string]int // focused row per column id
	offsets   map[string]int // first visible row per column id
	colOffset int

	mode      mode
	input     textinput.Model
	inputKind inputKind
	editing   model.SelectionRef // task being edited
	prevQuery string             // search text before "/" was pressed

	dialog *dialog
	drag   *drag

	showHelp   bool
	showDetail bool
	detail     viewport.Model
	md         *glamour.TermRenderer

	status        string
	statusIsError bool
}

// NewModel creates the UI for mgr. w may be nil.
func NewModel(ctx context.Context, mgr *board.Manager, cfg config.UIConfig, w *watcher.Watcher) Model {
	if cfg.ColumnWidth <= 0 {
		cfg.ColumnWidth = config.DefaultConfig().UI.ColumnWidth
	}
	ti := textinput.New()
	ti.CharLimit = 500

	md, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(detailWidth-6),
	)

	return Model{
		ctx:        ctx,
		mgr:        mgr,
		cfg:        cfg,
		watcher:    w,
		theme:      DefaultTheme(lipgloss.DefaultRenderer()),
		keys:       newKeyMap(),
		help:       help.New(),
		width:      120,
		height:     40,
		rows:       make(map[string]int),
		offsets:    make(map[string]int),
		input:      ti,
		showDetail: cfg.ShowDetail,
		detail:     viewport.New(detailWidth-4, 20),
		md:         md,
	}
}

// WithTheme returns a copy of m that renders with t.
func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	return m
}

// ProgramOptions are the tea.Program options the UI expects.
func ProgramOptions(cfg config.UIConfig) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// huh needs every message type, not just keys, while a dialog is open.
	if m.dialog != nil {
		return m.updateDialog(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clampFocus()
		return m, nil

	case FileChangedMsg:
		if err := m.mgr.Reload(m.ctx); err != nil {
			m.setError(fmt.Sprintf("Reload failed: %v", err))
		} else {
			m.clampFocus()
			m.setStatus("Board reloaded from disk")
		}
		debug.Log("ui: reloaded board after file change")
		if m.watcher != nil {
			return m, WatchFileCmd(m.watcher)
		}
		return m, nil

	case tea.MouseMsg:
		if !m.cfg.Mouse || m.mode != modeBoard || m.showHelp {
			return m, nil
		}
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		if m.mode == modeInput {
			return m.handleInputKeys(msg)
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m.handleBoardKeys(msg)
	}

	if m.mode == modeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// --- state helpers ------------------------------------------------------------

func (m Model) view() model.Board {
	return m.mgr.State().View()
}

func (m *Model) dispatch(a board.Action) board.State {
	s := m.mgr.Dispatch(a)
	m.clampFocus()
	return s
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusIsError = true
}

// clampFocus keeps the focused column and rows inside the current view and
// scrolls the focused card into sight.
func (m *Model) clampFocus() {
	view := m.view()
	if len(view) == 0 {
		m.col, m.colOffset = 0, 0
		return
	}
	m.col = clamp(m.col, 0, len(view)-1)
	l := m.layout()
	for _, c := range view {
		n := len(c.Tasks)
		m.rows[c.ID] = clamp(m.rows[c.ID], 0, n-1)
		off := clamp(m.offsets[c.ID], 0, max(0, n-l.visibleCards))
		m.offsets[c.ID] = off
	}
	c := view[m.col]
	row, off := m.rows[c.ID], m.offsets[c.ID]
	if row < off {
		off = row
	} else if row >= off+l.visibleCards {
		off = row - l.visibleCards + 1
	}
	m.offsets[c.ID] = max(0, off)

	if m.col < m.colOffset {
		m.colOffset = m.col
	} else if m.col >= m.colOffset+l.visibleCols {
		m.colOffset = m.col - l.visibleCols + 1
	}
	m.colOffset = clamp(m.colOffset, 0, max(0, len(view)-1))
}

func (m Model) focusedColumn() (model.Column, bool) {
	view := m.view()
	if m.col < 0 || m.col >= len(view) {
		return model.Column{}, false
	}
	return view[m.col], true
}

func (m Model) focusedTask() (model.Task, model.Column, bool) {
	c, ok := m.focusedColumn()
	if !ok || len(c.Tasks) == 0 {
		return model.Task{}, c, false
	}
	row := clamp(m.rows[c.ID], 0, len(c.Tasks)-1)
	return c.Tasks[row], c, true
}

// focusTask moves focus to the task wherever it now is in the view.
func (m *Model) focusTask(taskID string) {
	for ci, c := range m.view() {
		if ti := c.TaskIndex(taskID); ti >= 0 {
			m.col = ci
			m.rows[c.ID] = ti
			m.clampFocus()
			return
		}
	}
}

func (m *Model) focusColumn(columnID string) {
	if ci := m.view().ColumnIndex(columnID); ci >= 0 {
		m.col = ci
		m.clampFocus()
	}
}

// FocusedTaskID reports the task under the cursor, if any.
func (m Model) FocusedTaskID() string {
	t, _, ok := m.focusedTask()
	if !ok {
		return ""
	}
	return t.ID
}

// FocusedColumnID reports the column under the cursor, if any.
func (m Model) FocusedColumnID() string {
	c, ok := m.focusedColumn()
	if !ok {
		return ""
	}
	return c.ID
}

// Status returns the footer message.
func (m Model) Status() string { return m.status }

// InputActive reports whether a text prompt is open.
func (m Model) InputActive() bool { return m.mode == modeInput }

// DialogOpen reports whether a confirmation or picker dialog is open.
func (m Model) DialogOpen() bool { return m.dialog != nil }

// --- keyboard -----------------------------------------------------------------

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.quit):
		return m, tea.Quit
	case key.Matches(msg, k.help):
		m.showHelp = true
		m.help.ShowAll = true

	case key.Matches(msg, k.left):
		m.col--
		m.clampFocus()
	case key.Matches(msg, k.right):
		m.col++
		m.clampFocus()
	case key.Matches(msg, k.up):
		if c, ok := m.focusedColumn(); ok {
			m.rows[c.ID]--
			m.clampFocus()
		}
	case key.Matches(msg, k.down):
		if c, ok := m.focusedColumn(); ok {
			m.rows[c.ID]++
			m.clampFocus()
		}
	case key.Matches(msg, k.top):
		if c, ok := m.focusedColumn(); ok {
			m.rows[c.ID] = 0
			m.clampFocus()
		}
	case key.Matches(msg, k.bottom):
		if c, ok := m.focusedColumn(); ok {
			m.rows[c.ID] = len(c.Tasks) - 1
			m.clampFocus()
		}

	case key.Matches(msg, k.addTask):
		if _, ok := m.focusedColumn(); !ok {
			m.setError("Add a column first (A)")
			return m, nil
		}
		return m.startInput(inputAddTask, "New task: ", "")
	case key.Matches(msg, k.addColumn):
		return m.startInput(inputAddColumn, "New column: ", "")
	case key.Matches(msg, k.edit):
		t, c, ok := m.focusedTask()
		if !ok {
			return m, nil
		}
		m.editing = model.SelectionRef{TaskID: t.ID, ColumnID: c.ID}
		return m.startInput(inputEdit, "Edit: ", t.Description)
	case key.Matches(msg, k.search):
		m.prevQuery = m.mgr.State().Filter.SearchText
		return m.startInput(inputSearch, "/", m.prevQuery)

	case key.Matches(msg, k.toggleDone):
		if t, c, ok := m.focusedTask(); ok {
			m.dispatch(board.CompleteTodo{TaskID: t.ID, ColumnID: c.ID})
			m.focusTask(t.ID)
		}
	case key.Matches(msg, k.deleteTask):
		if t, c, ok := m.focusedTask(); ok {
			m.dispatch(board.RemoveTodo{TaskID: t.ID, ColumnID: c.ID})
			m.setStatus("Task deleted")
		}
	case key.Matches(msg, k.deleteColumn):
		c, ok := m.focusedColumn()
		if !ok {
			return m, nil
		}
		if m.cfg.ConfirmDeleteColumn {
			full, _ := m.mgr.State().Board.Column(c.ID)
			return m.openDialog(newDeleteColumnDialog(full))
		}
		m.dispatch(board.DeleteColumn{ColumnID: c.ID})
		m.setStatus("Column deleted")

	case key.Matches(msg, k.toggleSelect):
		if t, c, ok := m.focusedTask(); ok {
			m.dispatch(board.ToggleSelectTodo{TaskID: t.ID, ColumnID: c.ID})
		}
	case key.Matches(msg, k.selectColumn):
		if c, ok := m.focusedColumn(); ok {
			m.dispatch(board.SelectAllTodosInColumn{ColumnID: c.ID})
		}
	case key.Matches(msg, k.deselectColumn):
		if c, ok := m.focusedColumn(); ok {
			m.dispatch(board.DeselectAllTodosInColumn{ColumnID: c.ID})
		}
	case key.Matches(msg, k.selectAll):
		m.dispatch(board.SelectAllTodos{})
	case key.Matches(msg, k.deselectAll):
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}
		m.dispatch(board.DeselectAllTodos{})

	case key.Matches(msg, k.completeSelected):
		m.bulk(board.CompleteSelectedTodos{}, "Completed %d task(s)")
	case key.Matches(msg, k.incompleteSelected):
		m.bulk(board.IncompleteSelectedTodos{}, "Reopened %d task(s)")
	case key.Matches(msg, k.deleteSelected):
		m.bulk(board.DeleteSelectedTodos{}, "Deleted %d task(s)")
	case key.Matches(msg, k.moveSelected):
		s := m.mgr.State()
		if len(s.Selection) == 0 {
			m.setError("Nothing selected")
			return m, nil
		}
		return m.openDialog(newMoveSelectedDialog(s.Board, len(s.Selection)))

	case key.Matches(msg, k.filter):
		s := m.dispatch(board.ToggleFilter{})
		if s.Filter.CompletedOnly {
			m.setStatus("Showing completed tasks only")
		} else {
			m.setStatus("Showing all tasks")
		}
	case key.Matches(msg, k.copy):
		if t, _, ok := m.focusedTask(); ok {
			if err := clipboard.WriteAll(t.Description); err != nil {
				m.setError(fmt.Sprintf("Clipboard error: %v", err))
			} else {
				m.setStatus("Copied to clipboard")
			}
		}
	case key.Matches(msg, k.detail):
		m.showDetail = !m.showDetail
		m.clampFocus()

	case key.Matches(msg, k.dragUp):
		m.nudgeTask(dnd.Up)
	case key.Matches(msg, k.dragDown):
		m.nudgeTask(dnd.Down)
	case key.Matches(msg, k.dragLeft):
		m.nudgeTask(dnd.Left)
	case key.Matches(msg, k.dragRight):
		m.nudgeTask(dnd.Right)
	case key.Matches(msg, k.columnLeft):
		m.nudgeColumn(dnd.Left)
	case key.Matches(msg, k.columnRight):
		m.nudgeColumn(dnd.Right)
	}
	return m, nil
}

func (m *Model) bulk(a board.Action, done string) {
	n := len(m.mgr.State().Selection)
	if n == 0 {
		m.setError("Nothing selected")
		return
	}
	m.dispatch(a)
	m.setStatus(fmt.Sprintf(done, n))
}

// nudgeTask drags the focused task one step. The gesture is built from the
// visible neighbours and interpreted against the whole board.
func (m *Model) nudgeTask(dir dnd.Direction) {
	t, c, ok := m.focusedTask()
	if !ok {
		return
	}
	g, ok := dnd.NudgeTask(m.view(), t.ID, c.ID, dir)
	if !ok {
		return
	}
	m.drop(g)
	m.focusTask(t.ID)
}

func (m *Model) nudgeColumn(dir dnd.Direction) {
	c, ok := m.focusedColumn()
	if !ok {
		return
	}
	g, ok := dnd.NudgeColumn(m.view(), c.ID, dir)
	if !ok {
		return
	}
	m.drop(g)
	m.focusColumn(c.ID)
}

// drop interprets a finished gesture and dispatches the result.
func (m *Model) drop(g dnd.Gesture) {
	a := dnd.Interpret(m.mgr.State().Board, g)
	debug.Log("ui: drop source=%T targets=%d edge=%s action=%T", g.Source, len(g.Targets), g.Edge, a)
	if a == nil {
		return
	}
	m.dispatch(a)
}

// --- text input ---------------------------------------------------------------

func (m Model) startInput(kind inputKind, prompt, value string) (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.inputKind = kind
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Width = max(10, m.width-len(prompt)-2)
	return m, m.input.Focus()
}

func (m Model) stopInput() Model {
	m.mode = modeBoard
	m.input.Blur()
	m.input.SetValue("")
	return m
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.inputKind == inputSearch {
			m.dispatch(board.SetSearch{Text: m.prevQuery})
		}
		m = m.stopInput()
		m.setStatus("Cancelled")
		return m, nil
	case tea.KeyEnter:
		m.commitInput(strings.TrimSpace(m.input.Value()))
		return m.stopInput(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inputKind == inputSearch {
		m.dispatch(board.SetSearch{Text: m.input.Value()})
	}
	return m, cmd
}

// commitInput applies the prompt's text. Empty text is discarded.
func (m *Model) commitInput(text string) {
	switch m.inputKind {
	case inputAddTask:
		if text == "" {
			return
		}
		c, ok := m.focusedColumn()
		if !ok {
			return
		}
		m.dispatch(board.AddTodo{Description: text, ColumnID: c.ID})
		m.rows[c.ID] = 0
		m.clampFocus()
		m.setStatus("Task added")
	case inputAddColumn:
		if text == "" {
			return
		}
		s := m.dispatch(board.AddColumn{Title: text})
		m.col = len(s.Board) - 1
		m.clampFocus()
		m.setStatus("Column added")
	case inputEdit:
		if text == "" {
			m.setStatus("Edit discarded")
			return
		}
		m.dispatch(board.EditTodo{TaskID: m.editing.TaskID, ColumnID: m.editing.ColumnID, Description: text})
		m.focusTask(m.editing.TaskID)
	case inputSearch:
		m.dispatch(board.SetSearch{Text: text})
		if text == "" {
			m.setStatus("Search cleared")
		}
	}
}

// --- mouse --------------------------------------------------------------------

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	view := m.view()
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		h := m.hitTest(view, msg.X, msg.Y)
		if h.kind == hitNone {
			return m
		}
		m.col = h.col
		c := view[h.col]
		if msg.Button == tea.MouseButtonWheelUp {
			m.rows[c.ID]--
		} else {
			m.rows[c.ID]++
		}
		m.clampFocus()

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		h := m.hitTest(view, msg.X, msg.Y)
		switch h.kind {
		case hitCard:
			c := view[h.col]
			t := c.Tasks[h.row]
			m.col = h.col
			m.rows[c.ID] = h.row
			m.drag = &drag{
				source: dnd.TaskSource{TaskID: t.ID, OriginColumnID: c.ID},
				label:  t.Description,
				startX: msg.X, startY: msg.Y, over: h, fromColumn: c.ID,
			}
		case hitHeader:
			c := view[h.col]
			m.col = h.col
			m.drag = &drag{
				source: dnd.ColumnSource{ColumnID: c.ID},
				label:  c.Title,
				startX: msg.X, startY: msg.Y, over: h, fromColumn: c.ID,
			}
		case hitColumn:
			m.col = h.col
		}
		m.clampFocus()

	case msg.Action == tea.MouseActionMotion:
		if m.drag == nil {
			return m
		}
		m.drag.over = m.hitTest(view, msg.X, msg.Y)
		if msg.X != m.drag.startX || msg.Y != m.drag.startY {
			m.drag.moved = true
		}

	case msg.Action == tea.MouseActionRelease:
		d := m.drag
		m.drag = nil
		if d == nil {
			return m
		}
		if !d.moved && msg.X == d.startX && msg.Y == d.startY {
			return m
		}
		targets, edge := dropTargets(view, m.hitTest(view, msg.X, msg.Y))
		m.drop(dnd.Gesture{Source: d.source, Targets: targets, Edge: edge})
		switch src := d.source.(type) {
		case dnd.TaskSource:
			m.focusTask(src.TaskID)
		case dnd.ColumnSource:
			m.focusColumn(src.ColumnID)
		}
	}
	return m
}

// Dragging reports whether a pointer drag is in progress.
func (m Model) Dragging() bool { return m.drag != nil }
