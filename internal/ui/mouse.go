package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// handleMouse maps pointer events onto the same handlers the keys use.
// A left press on a row arms a pointer; motion onto another row while the
// button is held starts a drag; release either drops the drag or, when the
// pointer never left its row, counts as a click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
		return m, nil
	case tea.MouseButtonWheelDown:
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
		return m, nil
	}

	scr := m.layout()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.mousePress(scr, msg.X, msg.Y)
	case tea.MouseActionMotion:
		if m.pointer == nil {
			return m, nil
		}
		target := scr.rowAt(msg.Y)
		if target < 0 {
			return m, nil
		}
		if !m.drag.dragging && target != m.pointer.row {
			m.drag.start(m.pointer.row)
			m.status = "Dragging task"
		}
		m.dragOver(target)
		return m, nil
	case tea.MouseActionRelease:
		p := m.pointer
		m.pointer = nil
		if m.drag.dragging {
			m.drag.drop()
			m.status = "Moved task"
			return m, nil
		}
		if p == nil || scr.rowAt(msg.Y) != p.row {
			return m, nil
		}
		m.clickRow(scr.rows[p.row], p.row, msg.X)
	}
	return m, nil
}

func (m Model) mousePress(scr screen, x, y int) (tea.Model, tea.Cmd) {
	switch {
	case y == scr.noticeY:
		m.toggleNotice()
		return m, nil
	case y == scr.inputY:
		if scr.add.contains(x) {
			m.addFromInput()
			return m, nil
		}
		return m.focusInput()
	case y == scr.category:
		m.cycleCategory(1)
		return m, nil
	case y == scr.statsY && scr.clear.contains(x):
		m.requestClear()
		return m, nil
	}

	i := scr.rowAt(y)
	if i < 0 {
		return m, nil
	}
	if m.mode == modeInput {
		m.input.Blur()
		m.mode = modeList
	}
	m.cursor = i
	m.pointer = &pointer{row: i, x: x, y: y}
	return m, nil
}

// clickRow handles a completed click on row i. A click on the delete control
// never reaches the label handlers.
func (m *Model) clickRow(box rowBox, i, x int) {
	switch {
	case box.delete.contains(x):
		m.lastClick = click{row: -1}
		m.deleteAt(i)
	case box.label.contains(x):
		m.toggleAt(i)
		now := m.now()
		if m.lastClick.row == i && now.Sub(m.lastClick.at) <= m.doubleClickWindow() {
			m.lastClick = click{row: -1}
			m.openRename(i)
			return
		}
		m.lastClick = click{row: i, at: now}
	}
}

func (m Model) doubleClickWindow() time.Duration {
	ms := m.cfg.DoubleClickMS
	if ms <= 0 {
		ms = 400
	}
	return time.Duration(ms) * time.Millisecond
}
