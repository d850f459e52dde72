package ui

import (
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/dnd"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// Screen layout, top to bottom: a one-line title bar, a one-line row of
// column headers, the card area, an optional input line and a one-line
// footer. Columns are colWidth cells wide with a one-cell separator.
const (
	titleRows      = 1
	headerRow      = titleRows
	cardTop        = headerRow + 1
	cardHeight     = 3 // rounded border, text, border
	minColumnWidth = 16
	detailWidth    = 44
)

type layout struct {
	colWidth     int
	colOffset    int // index of the leftmost visible column
	visibleCols  int
	visibleCards int
	boardWidth   int
	detailWidth  int
	bodyHeight   int
}

func (m Model) layout() layout {
	cw := max(m.cfg.ColumnWidth, minColumnWidth)
	l := layout{colWidth: cw, boardWidth: m.width, colOffset: m.colOffset}
	if m.showDetail && m.width >= cw+detailWidth+1 {
		l.detailWidth = detailWidth
		l.boardWidth = m.width - detailWidth - 1
	}
	l.visibleCols = max(1, (l.boardWidth+1)/(cw+1))

	l.bodyHeight = m.height - titleRows - 1
	if m.mode == modeInput {
		l.bodyHeight--
	}
	l.bodyHeight = max(l.bodyHeight, cardTop)
	// One line for the header and one for the "more" marker.
	l.visibleCards = max(1, (l.bodyHeight-2)/cardHeight)
	return l
}

// columnX is the left edge of view column i, or -1 when it is scrolled out.
func (l layout) columnX(i int) int {
	vi := i - l.colOffset
	if vi < 0 || vi >= l.visibleCols {
		return -1
	}
	return vi * (l.colWidth + 1)
}

type hitKind int

const (
	hitNone hitKind = iota
	hitHeader
	hitCard
	hitColumn // empty space below the cards
)

type hit struct {
	kind hitKind
	col  int // view column index
	row  int // task index within the view column, for hitCard
	// edge is the nearest edge of the card (top/bottom) or column (left/right).
	edge dnd.Edge
}

// hitTest maps a terminal cell to what is drawn there.
func (m Model) hitTest(view model.Board, x, y int) hit {
	l := m.layout()
	if x < 0 || x >= l.boardWidth || y < headerRow || y >= titleRows+l.bodyHeight {
		return hit{}
	}
	stride := l.colWidth + 1
	vi := x / stride
	rel := x % stride
	if rel == l.colWidth || vi >= l.visibleCols {
		return hit{}
	}
	col := l.colOffset + vi
	if col >= len(view) {
		return hit{}
	}
	side := dnd.EdgeLeft
	if rel*2 >= l.colWidth {
		side = dnd.EdgeRight
	}
	if y == headerRow {
		return hit{kind: hitHeader, col: col, edge: side}
	}

	slot := (y - cardTop) / cardHeight
	if slot < l.visibleCards {
		row := m.offsets[view[col].ID] + slot
		if row < len(view[col].Tasks) {
			edge := dnd.EdgeTop
			if (y-cardTop)%cardHeight == cardHeight-1 {
				edge = dnd.EdgeBottom
			}
			return hit{kind: hitCard, col: col, row: row, edge: edge}
		}
	}
	return hit{kind: hitColumn, col: col, edge: side}
}

// dropTargets lists the drop targets under a hit, innermost first.
func dropTargets(view model.Board, h hit) ([]dnd.Target, dnd.Edge) {
	switch h.kind {
	case hitCard:
		c := view[h.col]
		return []dnd.Target{dnd.TaskTarget(c.Tasks[h.row].ID, c.ID), dnd.ColumnTarget(c.ID)}, h.edge
	case hitHeader, hitColumn:
		return []dnd.Target{dnd.ColumnTarget(view[h.col].ID)}, h.edge
	}
	return nil, dnd.EdgeNone
}
