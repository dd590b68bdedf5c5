package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"tudu/internal/task"
)

const (
	noticeExpandLabel   = "▸ Usage guide (expand)"
	noticeCollapseLabel = "▾ Usage guide (collapse)"
	addControl          = "[Add]"
	clearControl        = "[Clear all]"
	deleteControl       = "✕"
	dragHandle          = "⠿"
	emptyListText       = "No tasks yet. Press 'a' to add one."
)

// row is one rendered list entry. The rows slice mirrors the task list
// position for position.
type row struct {
	Text      string
	Completed bool
	Category  string
}

func renderRows(l *task.List) []row {
	tasks := l.Tasks()
	rows := make([]row, len(tasks))
	for i, t := range tasks {
		rows[i] = row{Text: t.Text, Completed: t.Completed, Category: t.Category}
	}
	return rows
}

// tasksFromRows reads the task sequence back out of the rendered order.
func tasksFromRows(rows []row) []task.Task {
	tasks := make([]task.Task, len(rows))
	for i, r := range rows {
		tasks[i] = task.Task{Text: r.Text, Completed: r.Completed, Category: r.Category}
	}
	return tasks
}

type span struct {
	start, end int
}

func (s span) contains(x int) bool {
	return x >= s.start && x < s.end
}

// rowBox is the hit box of one row. Rows scrolled out of view keep y = -1.
type rowBox struct {
	y      int
	label  span
	delete span
}

func (b rowBox) visible() bool { return b.y >= 0 }

// screen is one laid-out frame: the text lines exactly as drawn plus the hit
// boxes the mouse handlers test against. Every y is a terminal row.
type screen struct {
	lines    []string
	noticeY  int
	inputY   int
	add      span
	category int
	rows     []rowBox
	statsY   int
	clear    span
}

func (s screen) rowAt(y int) int {
	if y < 0 {
		return -1
	}
	for i, b := range s.rows {
		if b.y == y {
			return i
		}
	}
	return -1
}

// fixedLines counts the frame lines that are neither guide, rows nor tail:
// title, guide header, blank, input, category, blank, blank, stats.
const fixedLines = 8

// minRows is how many task rows the guide gives way to on a short terminal.
const minRows = 3

func (m Model) guideLines() []string {
	if !m.noticeOpen {
		return nil
	}
	return strings.Split(m.guide(), "\n")
}

// tailLines are drawn below the stats line: the open modal, the status line
// and the help line.
func (m Model) tailLines() []string {
	var lines []string
	switch m.mode {
	case modeRename:
		lines = append(lines, "")
		lines = append(lines, strings.Split(modalStyle.Render("Rename task\n"+m.prompt.View()+"\n"+
			mutedStyle.Render("enter: save   esc: cancel")), "\n")...)
	case modeConfirmClear:
		lines = append(lines, "")
		lines = append(lines, strings.Split(modalStyle.Render(fmt.Sprintf("Delete all %d tasks?\n", m.stats.Total)+
			mutedStyle.Render("y: delete all   n/esc: keep")), "\n")...)
	}
	lines = append(lines, "", m.status)
	lines = append(lines, strings.Split(m.help.View(m.keys), "\n")...)
	return lines
}

// budget splits the terminal height between the guide and the task rows. The
// guide is shortened first so that at least minRows rows stay visible. With
// no known height nothing is bounded.
func (m Model) budget(guideN, tailN int) (guideKeep, rowRoom int) {
	rowsWant := len(m.rows)
	if rowsWant < 1 {
		rowsWant = 1
	}
	if m.height <= 0 {
		return guideN, rowsWant
	}
	avail := m.height - fixedLines - tailN
	want := min(rowsWant, minRows)
	guideKeep = guideN
	if avail-guideKeep < want {
		guideKeep = max(0, avail-want)
	}
	rowRoom = max(1, avail-guideKeep)
	return guideKeep, rowRoom
}

func (m Model) rowRoom() int {
	_, room := m.budget(len(m.guideLines()), len(m.tailLines()))
	return room
}

// follow scrolls the row window so the cursor row is visible.
func (m *Model) follow() {
	room := m.rowRoom()
	n := len(m.rows)
	if n <= room {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+room {
		m.offset = m.cursor - room + 1
	}
	m.offset = max(0, min(m.offset, n-room))
}

func (m Model) layout() screen {
	var s screen
	add := func(line string) int {
		s.lines = append(s.lines, line)
		return len(s.lines) - 1
	}

	guide := m.guideLines()
	tail := m.tailLines()
	guideKeep, room := m.budget(len(guide), len(tail))

	add(titleStyle.Render("tudu"))

	header := noticeExpandLabel
	if m.noticeOpen {
		header = noticeCollapseLabel
	}
	s.noticeY = add(noticeHeaderStyle.Render(header))
	for _, line := range guide[:guideKeep] {
		add(line)
	}
	add("")

	inputPrefix := "New task: " + m.input.View() + "  "
	addStart := ansi.StringWidth(inputPrefix)
	s.add = span{start: addStart, end: addStart + ansi.StringWidth(addControl)}
	s.inputY = add(inputPrefix + buttonStyle.Render(addControl))
	s.category = add("Category: ‹ " + categoryTagStyle.Render(categoryName(m.currentCategory())) + " ›")
	add("")

	if len(m.rows) == 0 {
		add(mutedStyle.Render(emptyListText))
	}
	offset := max(0, min(m.offset, len(m.rows)-room))
	s.rows = make([]rowBox, len(m.rows))
	for i, r := range m.rows {
		if i < offset || i >= offset+room {
			s.rows[i] = rowBox{y: -1}
			continue
		}
		line, box := m.renderRow(i, r)
		box.y = add(line)
		s.rows[i] = box
	}
	add("")

	stats := task.StatsLine(m.stats)
	if hidden := len(m.rows) - room; hidden > 0 {
		stats += fmt.Sprintf(" (showing %d-%d)", offset+1, offset+room)
	}
	clearStart := ansi.StringWidth(stats) + 3
	s.clear = span{start: clearStart, end: clearStart + ansi.StringWidth(clearControl)}
	s.statsY = add(statsStyle.Render(stats) + "   " + buttonStyle.Render(clearControl))

	for _, line := range tail {
		add(line)
	}
	if m.height > 0 && len(s.lines) > m.height {
		s.crop(len(s.lines) - m.height)
	}
	return s
}

// crop drops the top n lines, as the renderer would on a terminal too short
// for the frame, and moves every hit box up with them.
func (s *screen) crop(n int) {
	s.lines = s.lines[n:]
	shift := func(y int) int {
		if y < n {
			return -1
		}
		return y - n
	}
	s.noticeY = shift(s.noticeY)
	s.inputY = shift(s.inputY)
	s.category = shift(s.category)
	s.statsY = shift(s.statsY)
	for i := range s.rows {
		if s.rows[i].visible() {
			s.rows[i].y = shift(s.rows[i].y)
		}
	}
}

func (m Model) renderRow(i int, r row) (string, rowBox) {
	cursor := "  "
	if i == m.cursor && m.mode == modeList {
		cursor = "> "
	}
	handle := handleStyle.Render(dragHandle)
	if m.drag.dragging && m.drag.source == i {
		handle = dragHandleStyle.Render(dragHandle)
	}
	prefix := cursor + handle + " "
	prefixW := ansi.StringWidth(cursor) + ansi.StringWidth(dragHandle) + 1

	tag := ""
	if r.Category != "" {
		tag = "[" + r.Category + "] "
	}
	tagW := ansi.StringWidth(tag)

	text := r.Text
	if m.width > 0 {
		avail := m.width - prefixW - tagW - 1 - ansi.StringWidth(deleteControl)
		if avail < 1 {
			avail = 1
		}
		text = ansi.Truncate(text, avail, "…")
	}
	textW := ansi.StringWidth(text)

	style := labelStyle
	switch {
	case r.Completed:
		style = completedLabelStyle
	case i == m.cursor && m.mode == modeList:
		style = selectedLabelStyle
	}

	var b strings.Builder
	b.WriteString(prefix)
	if tag != "" {
		b.WriteString(categoryTagStyle.Render(tag))
	}
	b.WriteString(style.Render(text))
	b.WriteString(" ")
	b.WriteString(deleteStyle.Render(deleteControl))

	labelStart := prefixW + tagW
	box := rowBox{
		label:  span{start: labelStart, end: labelStart + textW},
		delete: span{start: labelStart + textW + 1, end: labelStart + textW + 1 + ansi.StringWidth(deleteControl)},
	}
	return b.String(), box
}

func (m Model) View() string {
	return strings.Join(m.layout().lines, "\n")
}

func categoryName(c string) string {
	if c == "" {
		return "(none)"
	}
	return c
}
