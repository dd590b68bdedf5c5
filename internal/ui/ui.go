package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tudu/internal/config"
	"tudu/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeInput
	modeRename
	modeConfirmClear
)

// Store loads and saves the whole task list.
type Store interface {
	Load() []task.Task
	Save([]task.Task) error
}

type pointer struct {
	row  int
	x, y int
}

type click struct {
	row int
	at  time.Time
}

type Model struct {
	store  Store
	cfg    config.Config
	logger *log.Logger
	keys   keyMap
	help   help.Model

	list  *task.List
	rows  []row
	stats task.Stats

	cursor      int
	mode        mode
	input       textinput.Model
	prompt      textinput.Model
	renameIdx   int
	categoryIdx int
	noticeOpen  bool
	status      string

	drag      reorder
	pointer   *pointer
	lastClick click

	width  int
	height int
	offset int

	now      func() time.Time
	copyText func(string) error
}

// New hydrates the task list from store and returns the initial model.
func New(store Store, cfg config.Config, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{""}
	}

	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 256
	ti.Width = 40

	pr := textinput.New()
	pr.CharLimit = 256
	pr.Width = 40

	m := Model{
		store:      store,
		cfg:        cfg,
		logger:     logger,
		keys:       newKeyMap(cfg.Keys),
		help:       help.New(),
		list:       task.NewList(store.Load()),
		input:      ti,
		prompt:     pr,
		noticeOpen: true,
		status:     "Press 'a' to add, space to toggle, 'd' to delete.",
		drag:       reorder{source: -1},
		lastClick:  click{row: -1},
		now:        time.Now,
		copyText:   clipboard.WriteAll,
	}
	m.render()
	return m
}

// Run starts the interactive program and blocks until it exits.
func Run(store Store, cfg config.Config, logger *log.Logger) error {
	applyColorProfilePreference()
	program := tea.NewProgram(New(store, cfg, logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	nm := next.(Model)
	nm.follow()
	return nm, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeRename:
			return m.updateRename(msg)
		case modeConfirmClear:
			return m.updateConfirmClear(msg)
		case modeInput:
			return m.updateInput(msg)
		}
		if m.drag.dragging {
			return m.updateKeyboardDrag(msg)
		}
		return m.updateList(msg)
	case tea.MouseMsg:
		if m.mode == modeRename || m.mode == modeConfirmClear {
			return m, nil
		}
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 24; w > 10 {
			m.input.Width = w
			m.prompt.Width = w
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.rows))
	case key.Matches(msg, m.keys.Add):
		return m.focusInput()
	case key.Matches(msg, m.keys.Toggle):
		m.toggleAt(m.cursor)
	case key.Matches(msg, m.keys.Rename):
		m.openRename(m.cursor)
	case key.Matches(msg, m.keys.Delete):
		m.deleteAt(m.cursor)
	case key.Matches(msg, m.keys.Clear):
		m.requestClear()
	case key.Matches(msg, m.keys.Notice):
		m.toggleNotice()
	case key.Matches(msg, m.keys.Grab):
		m.grab()
	case key.Matches(msg, m.keys.Copy):
		m.copyAt(m.cursor)
	case key.Matches(msg, m.keys.NextCategory):
		m.cycleCategory(1)
	case key.Matches(msg, m.keys.PrevCategory):
		m.cycleCategory(-1)
	}
	return m, nil
}

func (m Model) focusInput() (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.status = "Type a task and press Enter"
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		// Consumed here so the text input never sees the confirm key.
		m.addFromInput()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		m.mode = modeList
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.NextCategory):
		m.cycleCategory(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevCategory):
		m.cycleCategory(-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		v := m.prompt.Value()
		m.finishRename(&v)
		return m, nil
	case key.Matches(msg, m.keys.Cancel), msg.Type == tea.KeyCtrlC:
		m.finishRename(nil)
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.finishClear(true)
	case "n", "N", "esc", "ctrl+c":
		m.finishClear(false)
	default:
		if key.Matches(msg, m.keys.Cancel) {
			m.finishClear(false)
		}
	}
	return m, nil
}

func (m Model) updateKeyboardDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.drag.drop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.dragOver(m.drag.source - 1)
	case key.Matches(msg, m.keys.Down):
		m.dragOver(m.drag.source + 1)
	case key.Matches(msg, m.keys.Grab), key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Cancel):
		m.drag.drop()
		m.status = "Dropped task"
	}
	return m, nil
}

// render rebuilds the rows from the task list and recomputes the stats.
func (m *Model) render() {
	m.rows = renderRows(m.list)
	m.refreshStats()
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m *Model) refreshStats() {
	m.stats = m.list.Stats()
}

// persist writes the full list. A failed save leaves the in-memory list
// authoritative and reports on the status line.
func (m *Model) persist() {
	if err := m.store.Save(m.list.Tasks()); err != nil {
		m.logger.Error("persist tasks", "err", err)
		m.status = fmt.Sprintf("save failed: %v", err)
	}
}

func (m Model) currentCategory() string {
	if m.categoryIdx < 0 || m.categoryIdx >= len(m.cfg.Categories) {
		return ""
	}
	return m.cfg.Categories[m.categoryIdx]
}

func (m Model) guide() string {
	k := m.cfg.Keys
	md := strings.Join([]string{
		"- **Add**: press `" + k.Add + "`, type, then `enter` or click **[Add]**. `" +
			k.NextCategory + "` picks a category first.",
		"- **Complete**: click a task or press `" + keyLabel(k.Toggle) + "`.",
		"- **Rename**: double-click a task or press `" + k.Rename + "`.",
		"- **Delete**: click `✕` or press `" + k.Delete + "`.",
		"- **Reorder**: drag a task with the mouse, or press `" + k.Grab + "` and move with the arrow keys.",
		"- **Clear all**: press `" + k.Clear + "` or click **[Clear all]**.",
	}, "\n")
	width := m.width - 4
	if width <= 0 {
		width = 72
	}
	return renderMarkdown(md, width)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
