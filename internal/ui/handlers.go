package ui

import (
	"fmt"
	"strings"
)

// Every handler takes the row index as it stands when the event arrives.

func (m *Model) toggleAt(i int) {
	if !m.list.Toggle(i) {
		return
	}
	m.persist()
	t, _ := m.list.At(i)
	m.rows[i].Completed = t.Completed
	m.refreshStats()
}

func (m *Model) openRename(i int) {
	t, ok := m.list.At(i)
	if !ok {
		return
	}
	m.renameIdx = i
	m.prompt.SetValue(t.Text)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	m.input.Blur()
	m.mode = modeRename
	m.status = "Rename task: enter to save, esc to cancel"
}

// finishRename applies the prompt result. A nil value means the prompt was
// cancelled.
func (m *Model) finishRename(value *string) {
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.mode = modeList
	if value == nil {
		m.status = "Rename cancelled"
		return
	}
	if !m.list.Rename(m.renameIdx, *value) {
		m.status = "Task unchanged"
		return
	}
	m.status = "Renamed task"
	m.persist()
	m.rows[m.renameIdx].Text = strings.TrimSpace(*value)
}

func (m *Model) deleteAt(i int) {
	if !m.list.Remove(i) {
		return
	}
	m.status = "Deleted task"
	m.persist()
	m.render()
}

func (m *Model) addFromInput() {
	if !m.list.Add(m.input.Value(), m.currentCategory()) {
		return
	}
	m.status = "Added task"
	m.persist()
	m.render()
	m.input.SetValue("")
	m.cursor = clampCursor(len(m.rows)-1, len(m.rows))
}

func (m *Model) requestClear() {
	m.input.Blur()
	m.mode = modeConfirmClear
	m.status = fmt.Sprintf("Delete all %d tasks? y/n", m.stats.Total)
}

func (m *Model) finishClear(confirmed bool) {
	m.mode = modeList
	if !confirmed {
		m.status = "Clear cancelled"
		return
	}
	m.list.Clear()
	m.status = "Cleared all tasks"
	m.persist()
	m.render()
}

// toggleNotice flips the usage guide. It is view state only.
func (m *Model) toggleNotice() {
	m.noticeOpen = !m.noticeOpen
}

func (m *Model) cycleCategory(delta int) {
	n := len(m.cfg.Categories)
	if n == 0 {
		return
	}
	m.categoryIdx = ((m.categoryIdx+delta)%n + n) % n
	m.status = "Category: " + categoryName(m.currentCategory())
}

func (m *Model) copyAt(i int) {
	t, ok := m.list.At(i)
	if !ok {
		return
	}
	if err := m.copyText(t.Text); err != nil {
		m.logger.Warn("copy to clipboard", "err", err)
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = "Copied task text"
}

func (m *Model) grab() {
	if len(m.rows) == 0 {
		return
	}
	m.drag.start(m.cursor)
	m.status = "Moving task: up/down to move, enter to drop"
}

// dragOver moves the dragged row over target, then re-derives the task list
// from the row order and saves it. Nothing is deferred to the drop.
func (m *Model) dragOver(target int) {
	if !m.drag.over(m.rows, target) {
		return
	}
	m.list.Replace(tasksFromRows(m.rows))
	m.persist()
	m.refreshStats()
	m.cursor = m.drag.source
}
