package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	left, right, up, down key.Binding
	top, bottom           key.Binding

	addTask, addColumn  key.Binding
	edit, toggleDone    key.Binding
	deleteTask          key.Binding
	deleteColumn        key.Binding
	toggleSelect        key.Binding
	selectColumn        key.Binding
	deselectColumn      key.Binding
	selectAll           key.Binding
	deselectAll         key.Binding
	completeSelected    key.Binding
	incompleteSelected  key.Binding
	deleteSelected      key.Binding
	moveSelected        key.Binding
	filter, search      key.Binding
	copy, detail        key.Binding
	dragUp, dragDown    key.Binding
	dragLeft, dragRight key.Binding
	columnLeft          key.Binding
	columnRight         key.Binding
	help, quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "left")),
		right:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "right")),
		up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first task")),
		bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last task")),

		addTask:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		addColumn:          key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add column")),
		edit:               key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		toggleDone:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
		deleteTask:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		deleteColumn:       key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete column")),
		toggleSelect:       key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		selectColumn:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select column")),
		deselectColumn:     key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "deselect column")),
		selectAll:          key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		deselectAll:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect all")),
		completeSelected:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete selected")),
		incompleteSelected: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "reopen selected")),
		deleteSelected:     key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete selected")),
		moveSelected:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move selected")),
		filter:             key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "completed only")),
		search:             key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		copy:               key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		detail:             key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		dragUp:             key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "drag up")),
		dragDown:           key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "drag down")),
		dragLeft:           key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "drag left")),
		dragRight:          key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "drag right")),
		columnLeft:         key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "column left")),
		columnRight:        key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "column right")),
		help:               key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:               key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.addTask, k.toggleDone, k.toggleSelect, k.dragDown, k.search, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.up, k.down, k.top, k.bottom, k.detail},
		{k.addTask, k.addColumn, k.edit, k.toggleDone, k.deleteTask, k.deleteColumn, k.copy},
		{k.toggleSelect, k.selectColumn, k.deselectColumn, k.selectAll, k.deselectAll},
		{k.completeSelected, k.incompleteSelected, k.deleteSelected, k.moveSelected},
		{k.dragUp, k.dragDown, k.dragLeft, k.dragRight, k.columnLeft, k.columnRight},
		{k.filter, k.search, k.help, k.quit},
	}
}
