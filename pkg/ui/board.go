package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/board"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/dnd"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/metrics"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()
	s := m.mgr.State()
	view := s.View()
	l := m.layout()
	t := m.theme

	var body string
	switch {
	case m.dialog != nil:
		body = t.Renderer.Place(m.width, l.bodyHeight, lipgloss.Center, lipgloss.Center, m.dialog.form.View())
	case m.showHelp:
		body = t.Renderer.Place(m.width, l.bodyHeight, lipgloss.Center, lipgloss.Center, m.help.View(m.keys))
	case len(view) == 0:
		body = t.Renderer.NewStyle().
			Width(l.boardWidth).
			Height(l.bodyHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(t.Secondary).
			Render("No columns yet. Press A to add one.")
	default:
		body = m.renderColumns(s, view, l)
		if l.detailWidth > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.renderDetailPanel(s, l.detailWidth, l.bodyHeight))
		}
	}
	body = fitHeight(body, l.bodyHeight)

	parts := []string{m.renderTitleBar(s), body}
	if m.mode == modeInput {
		parts = append(parts, m.input.View())
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n")
}

// renderTitleBar shows counts plus the active filter and search text.
func (m Model) renderTitleBar(s board.State) string {
	t := m.theme
	done := 0
	for _, c := range s.Board {
		for _, task := range c.Tasks {
			if task.IsCompleted {
				done++
			}
		}
	}
	title := t.Title.Render("dragtodo") + t.MutedText.Render(fmt.Sprintf("  %d columns · %d tasks · %d done",
		len(s.Board), s.Board.TaskCount(), done))
	if n := len(s.Selection); n > 0 {
		title += "  " + t.SelectedMark.Render(fmt.Sprintf("%s %d selected", glyphSelected, n))
	}
	if s.Filter.CompletedOnly {
		title += "  " + t.Badge.Render("completed only")
	}
	if s.Filter.SearchText != "" {
		title += "  " + t.Badge.Render("search: "+truncate(s.Filter.SearchText, 20))
	}
	return t.Renderer.NewStyle().MaxWidth(m.width).Render(title)
}

func (m Model) renderFooter() string {
	t := m.theme
	if m.drag != nil {
		return t.Status.Render(fmt.Sprintf("%s dragging %q", glyphDrag, truncate(m.drag.label, 30)))
	}
	if m.status != "" {
		if m.statusIsError {
			return t.StatusError.Render(m.status)
		}
		return t.Status.Render(m.status)
	}
	h := m.help
	h.ShowAll = false
	return h.View(m.keys)
}

// renderColumns draws the visible columns side by side. Geometry must agree
// with hitTest.
func (m Model) renderColumns(s board.State, view model.Board, l layout) string {
	var cols [][]string
	for i := l.colOffset; i < len(view) && i < l.colOffset+l.visibleCols; i++ {
		cols = append(cols, m.renderColumn(s, view[i], i, l))
	}

	sep := m.theme.Separator.Render(glyphSep)
	rows := make([]string, l.bodyHeight)
	for r := range rows {
		parts := make([]string, len(cols))
		for i, lines := range cols {
			parts[i] = lines[r]
		}
		rows[r] = strings.Join(parts, sep)
	}
	return strings.Join(rows, "\n")
}

// renderColumn returns exactly l.bodyHeight lines, each l.colWidth cells wide.
func (m Model) renderColumn(s board.State, c model.Column, idx int, l layout) []string {
	t := m.theme
	w := l.colWidth
	focused := idx == m.col

	// Hidden tasks count too; bulk actions apply to them.
	selected := s.Selection.InColumn(c.ID)
	header := fmt.Sprintf("%s (%d)", c.Title, len(c.Tasks))
	if selected > 0 {
		header += fmt.Sprintf(" %s%d", glyphSelected, selected)
	}
	hs := t.Header
	switch {
	case m.dropColumn() == idx:
		hs = t.HeaderDrop
	case focused:
		hs = t.HeaderFocused
	}
	lines := []string{hs.Width(w).MaxWidth(w).Render(truncate(header, w-2))}

	off := m.offsets[c.ID]
	end := min(len(c.Tasks), off+l.visibleCards)
	for row := off; row < end; row++ {
		card := m.renderCard(s, c, row, focused && row == m.rows[c.ID], w)
		lines = append(lines, strings.Split(card, "\n")...)
	}

	blank := strings.Repeat(" ", w)
	if len(c.Tasks) == 0 && l.bodyHeight > 2 {
		lines = append(lines, t.MutedText.Width(w).Align(lipgloss.Center).Render("(empty)"))
	} else if hidden := len(c.Tasks) - end; hidden > 0 && len(lines) < l.bodyHeight {
		lines = append(lines, t.MutedText.Width(w).Align(lipgloss.Center).Render(fmt.Sprintf("↓ %d more", hidden)))
	}
	for len(lines) < l.bodyHeight {
		lines = append(lines, blank)
	}
	return lines[:l.bodyHeight]
}

// renderCard draws one task as a cardHeight-line box, w cells wide.
func (m Model) renderCard(s board.State, c model.Column, row int, focused bool, w int) string {
	t := m.theme
	task := c.Tasks[row]

	mark := t.MutedText.Render(glyphOpen)
	if task.IsCompleted {
		mark = t.DoneMark.Render(glyphDone)
	}
	sel := " "
	if s.IsSelected(task.ID, c.ID) {
		sel = t.SelectedMark.Render(glyphSelected)
	}

	text := truncate(task.Description, w-8)
	if task.IsCompleted {
		text = t.DoneText.Render(text)
	}

	style := t.Card
	switch {
	case m.isDragged(task.ID):
		style = t.CardDragged
	case focused:
		style = t.CardFocused
	}
	return style.Width(w - 2).MaxWidth(w).Render(sel + " " + mark + " " + text)
}

// dropColumn is the view column under the pointer during a drag, or -1.
func (m Model) dropColumn() int {
	if m.drag == nil || !m.drag.moved || m.drag.over.kind == hitNone {
		return -1
	}
	return m.drag.over.col
}

func (m Model) isDragged(taskID string) bool {
	if m.drag == nil {
		return false
	}
	src, ok := m.drag.source.(dnd.TaskSource)
	return ok && src.TaskID == taskID
}

// renderDetailPanel shows the focused task as glamour-rendered markdown.
func (m Model) renderDetailPanel(s board.State, width, height int) string {
	t := m.theme
	content := "## No task\n\nMove to a card with **h/l** and **j/k** to see it here."
	if task, c, ok := m.focusedTask(); ok {
		content = taskMarkdown(task, c, s.IsSelected(task.ID, c.ID))
	}
	rendered := content
	if m.md != nil {
		if md, err := m.md.Render(content); err == nil {
			rendered = md
		}
	}

	vp := m.detail
	vp.Width = width - 4
	vp.Height = max(1, height-3)
	vp.SetContent(rendered)

	titleBar := t.Title.Width(width - 4).Align(lipgloss.Center).Render("DETAILS")
	panel := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Width(width-2).
		Height(height-2).
		Padding(0, 1)
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, titleBar, vp.View()))
}

func taskMarkdown(task model.Task, c model.Column, selected bool) string {
	var sb strings.Builder
	status := "open"
	if task.IsCompleted {
		status = "done"
	}
	fmt.Fprintf(&sb, "## %s\n\n", c.Title)
	sb.WriteString(task.Description)
	sb.WriteString("\n\n---\n\n")
	fmt.Fprintf(&sb, "- **Status:** %s\n", status)
	if selected {
		sb.WriteString("- **Selected:** yes\n")
	}
	fmt.Fprintf(&sb, "- **ID:** `%s`\n", task.ID)
	return sb.String()
}

// fitHeight pads or cuts s to exactly n lines.
func fitHeight(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
