package ui

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tudu/internal/config"
	"tudu/internal/task"
)

type memStore struct {
	tasks []task.Task
	saves int
	err   error
}

func (s *memStore) Load() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *memStore) Save(tasks []task.Task) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = make([]task.Task, len(tasks))
	copy(s.tasks, tasks)
	s.saves++
	return nil
}

func plainProfile(t *testing.T) {
	t.Helper()
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })
}

func newTestModel(t *testing.T, store *memStore) Model {
	t.Helper()
	plainProfile(t)
	m := New(store, config.Default(), nil)
	m.copyText = func(string) error { return nil }
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	out, _ := m.Update(msg)
	return out.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func clickAt(t *testing.T, m Model, x, y int) Model {
	t.Helper()
	m = update(t, m, press(x, y))
	return update(t, m, release(x, y))
}

func clickLabel(t *testing.T, m Model, i int) Model {
	t.Helper()
	box := m.layout().rows[i]
	return clickAt(t, m, box.label.start, box.y)
}

func abc() []task.Task {
	return []task.Task{{Text: "A"}, {Text: "B"}, {Text: "C"}}
}

func textsOf(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

// assertInSync checks that row N on screen shows task N of the list.
func assertInSync(t *testing.T, m Model) {
	t.Helper()
	tasks := m.list.Tasks()
	if len(m.rows) != len(tasks) {
		t.Fatalf("rows = %d, tasks = %d", len(m.rows), len(tasks))
	}
	scr := m.layout()
	if len(scr.rows) != len(tasks) {
		t.Fatalf("rendered rows = %d, tasks = %d", len(scr.rows), len(tasks))
	}
	for i, tk := range tasks {
		r := m.rows[i]
		if r.Text != tk.Text || r.Completed != tk.Completed || r.Category != tk.Category {
			t.Fatalf("row %d = %+v, task = %+v", i, r, tk)
		}
		box := scr.rows[i]
		if !box.visible() {
			continue
		}
		if line := scr.lines[box.y]; !strings.Contains(line, tk.Text) {
			t.Fatalf("line for row %d = %q, want it to contain %q", i, line, tk.Text)
		}
	}
	if m.height > 0 && len(scr.lines) > m.height {
		t.Fatalf("frame has %d lines, terminal has %d", len(scr.lines), m.height)
	}
	if want := task.StatsLine(m.list.Stats()); !strings.Contains(m.View(), want) {
		t.Fatalf("view missing stats line %q", want)
	}
}

func TestNewHydratesFromStore(t *testing.T) {
	store := &memStore{tasks: []task.Task{{Text: "A", Completed: true}, {Text: "B"}, {Text: "C", Category: "Work"}}}
	m := newTestModel(t, store)
	assertInSync(t, m)
	view := m.View()
	if !strings.Contains(view, "Total 3 tasks, 1 completed, 2 remaining") {
		t.Fatalf("stats line missing:\n%s", view)
	}
	if !strings.Contains(view, "[Work] C") {
		t.Fatalf("category tag not rendered before label:\n%s", view)
	}
	if strings.Index(view, "A ✕") > strings.Index(view, "B ✕") {
		t.Fatalf("rows out of order:\n%s", view)
	}
}

func TestViewIsIdempotent(t *testing.T) {
	m := newTestModel(t, &memStore{tasks: abc()})
	if first, second := m.View(), m.View(); first != second {
		t.Fatalf("View changed between calls:\n%s\n---\n%s", first, second)
	}
}

func TestAddFromInput(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)

	m = update(t, m, runes("a"))
	if m.mode != modeInput {
		t.Fatalf("mode = %v, want input", m.mode)
	}
	m = update(t, m, keyTab)
	if got := m.currentCategory(); got != "Work" {
		t.Fatalf("category = %q, want Work", got)
	}
	for _, r := range "Buy milk" {
		m = update(t, m, runes(string(r)))
	}
	m = update(t, m, keyEnter)

	want := []task.Task{{Text: "Buy milk", Category: "Work"}}
	if got := m.list.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tasks = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(store.tasks, want) {
		t.Fatalf("store = %+v, want %+v", store.tasks, want)
	}
	if m.input.Value() != "" {
		t.Fatalf("input not cleared: %q", m.input.Value())
	}
	if strings.Contains(m.input.Value(), "\n") {
		t.Fatal("enter leaked into the input")
	}
	assertInSync(t, m)
}

func TestAddBlankIsIgnored(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)
	m = update(t, m, runes("a"))
	for _, v := range []string{"", "   "} {
		m.input.SetValue(v)
		m = update(t, m, keyEnter)
	}
	if m.list.Len() != 0 || store.saves != 0 {
		t.Fatalf("blank add changed state: len %d saves %d", m.list.Len(), store.saves)
	}
}

func TestAddControlClick(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)
	m.input.SetValue("  Walk dog ")
	scr := m.layout()
	m = clickAt(t, m, scr.add.start, scr.inputY)
	if got := textsOf(m.list.Tasks()); !reflect.DeepEqual(got, []string{"Walk dog"}) {
		t.Fatalf("tasks = %v", got)
	}
	assertInSync(t, m)
}

func TestToggleWithKeyFlipsOnlyCursorRow(t *testing.T) {
	store := &memStore{tasks: abc()}
	m := newTestModel(t, store)
	m = update(t, m, keyDown)
	m = update(t, m, keySpace)

	got := m.list.Tasks()
	if got[0].Completed || !got[1].Completed || got[2].Completed {
		t.Fatalf("tasks = %+v", got)
	}
	if !store.tasks[1].Completed {
		t.Fatal("toggle not persisted")
	}
	if m.stats != (task.Stats{Total: 3, Completed: 1, Uncompleted: 2}) {
		t.Fatalf("stats = %+v", m.stats)
	}
	assertInSync(t, m)
}

func TestClickLabelTogglesAndDeleteDoesNot(t *testing.T) {
	store := &memStore{tasks: abc()}
	m := newTestModel(t, store)

	m = clickLabel(t, m, 2)
	if tk, _ := m.list.At(2); !tk.Completed {
		t.Fatal("label click did not toggle")
	}

	box := m.layout().rows[1]
	m = clickAt(t, m, box.delete.start, box.y)
	want := []task.Task{{Text: "A"}, {Text: "C", Completed: true}}
	if got := m.list.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tasks = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(store.tasks, want) {
		t.Fatalf("store = %+v", store.tasks)
	}
	assertInSync(t, m)
}

func TestDoubleClickRenames(t *testing.T) {
	store := &memStore{tasks: abc()}
	m := newTestModel(t, store)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	m.now = func() time.Time { return clock }

	m = clickLabel(t, m, 1)
	clock = base.Add(150 * time.Millisecond)
	m = clickLabel(t, m, 1)

	if m.mode != modeRename {
		t.Fatalf("mode = %v, want rename", m.mode)
	}
	if m.prompt.Value() != "B" {
		t.Fatalf("prompt seeded with %q", m.prompt.Value())
	}
	if tk, _ := m.list.At(1); tk.Completed {
		t.Fatal("two clicks should leave completion unchanged")
	}

	m.prompt.SetValue("  Walk dog  ")
	m = update(t, m, keyEnter)
	if tk, _ := m.list.At(1); tk.Text != "Walk dog" {
		t.Fatalf("text = %q", tk.Text)
	}
	if store.tasks[1].Text != "Walk dog" {
		t.Fatalf("store text = %q", store.tasks[1].Text)
	}
	assertInSync(t, m)
}

func TestSlowSecondClickIsNotDoubleClick(t *testing.T) {
	m := newTestModel(t, &memStore{tasks: abc()})
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	m.now = func() time.Time { return clock }
	m = clickLabel(t, m, 0)
	clock = base.Add(2 * time.Second)
	m = clickLabel(t, m, 0)
	if m.mode == modeRename {
		t.Fatal("slow clicks opened the rename prompt")
	}
}

func TestRenameCancelAndBlank(t *testing.T) {
	store := &memStore{tasks: abc()}
	m := newTestModel(t, store)

	m = update(t, m, runes("e"))
	if m.mode != modeRename {
		t.Fatalf("mode = %v", m.mode)
	}
	m.prompt.SetValue("ignored")
	m = update(t, m, keyEsc)
	if tk, _ := m.list.At(0); tk.Text != "A" {
		t.Fatalf("cancelled rename changed text to %q", tk.Text)
	}

	m = update(t, m, runes("e"))
	m.prompt.SetValue("   ")
	m = update(t, m, keyEnter)
	if tk, _ := m.list.At(0); tk.Text != "A" {
		t.Fatalf("blank rename changed text to %q", tk.Text)
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0", store.saves)
	}
}

func TestPromptSuspendsOtherInput(t *testing.T) {
	m := newTestModel(t, &memStore{tasks: abc()})
	m = update(t, m, runes("e"))
	scr := m.layout()
	m = clickAt(t, m, scr.rows[2].delete.start, scr.rows[2].y)
	if m.list.Len() != 3 {
		t.Fatal("mouse delete ran while the prompt was open")
	}
}

func TestDeleteLastTask(t *testing.T) {
	store := &memStore{tasks: []task.Task{{Text: "only"}}}
	m := newTestModel(t, store)
	m = update(t, m, runes("d"))
	if m.list.Len() != 0 || len(store.tasks) != 0 {
		t.Fatalf("list %d, store %d", m.list.Len(), len(store.tasks))
	}
	view := m.View()
	if !strings.Contains(view, "Total 0 tasks, 0 completed, 0 remaining") {
		t.Fatalf("zero stats missing:\n%s", view)
	}
	if !strings.Contains(view, emptyListText) {
		t.Fatalf("empty placeholder missing:\n%s", view)
	}
}

func TestMouseDragDown(t *testing.T) {
	store := &memStore{tasks: abc()}
	m := newTestModel(t, store)
	scr := m.layout()

	m = update(t, m, press(scr.rows[0].label.start, scr.rows[0].y))
	m = update(t, m, motion(1, scr.rows[1].y))
	if !m.drag.dragging {
		t.Fatal("drag did not start")
	}
	if got := textsOf(store.tasks); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Fatalf("store after first move = %v", got)
	}
	assertInSync(t, m)

	m = update(t, m, motion(1, scr.rows[2].y))
	m = update(t, m, release(1, scr.rows[2].y))
	if m.drag.dragging {
		t.Fatal("drop did not end the drag")
	}
	want := []string{"B", "C", "A"}
	if got := textsOf(m.list.Tasks()); !reflect.DeepEqual(got, want) {
		t.Fatalf("tasks = %v, want %v", got, want)
	}
	if tk, _ := m.list.At(2); tk.Completed {
		t.Fatal("drop counted as a click")
	}
	assertInSync(t, m)

	reloaded := newTestModel(t, store)
	if got := textsOf(reloaded.list.Tasks()); !reflect.DeepEqual(got, want) {
		t.Fatalf("reloaded = %v, want %v", got, want)
	}
}

func TestMouseDragUpKeepsFields(t *testing.T) {
	store := &memStore{tasks: []task.Task{
		{Text: "A"},
		{Text: "B", Category: "Work"},
		{Text: "C", Completed: true, Category: "Errands"},
	}}
	m := newTestModel(t, store)
	scr := m.layout()

	m = update(t, m, press(1, scr.rows[2].y))
	m = update(t, m, motion(1, scr.rows[0].y))
	m = update(t, m, release(1, scr.rows[0].y))

	want := []task.Task{
		{Text: "C", Completed: true, Category: "Errands"},
		{Text: "A"},
		{Text: "B", Category: "Work"},
	}
	if got := m.list.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tasks = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(store.tasks, want) {
		t.Fatalf("store = %+v", store.tasks)
	}
	assertInSync(t, m)
}

func TestKeyboardGrabReorders(t *testing.T) {
	store := &memStore{tasks: abc()}
	m := newTestModel(t, store)
	m = update(t, m, runes("m"))
	m = update(t, m, keyDown)
	m = update(t, m, keyDown)
	m = update(t, m, keyDown)
	m = update(t, m, keyEnter)

	if m.drag.dragging {
		t.Fatal("still dragging after drop")
	}
	want := []string{"B", "C", "A"}
	if got := textsOf(store.tasks); !reflect.DeepEqual(got, want) {
		t.Fatalf("store = %v, want %v", got, want)
	}
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	assertInSync(t, m)
}

func TestClearAll(t *testing.T) {
	store := &memStore{tasks: abc()}
	m := newTestModel(t, store)

	m = update(t, m, runes("C"))
	if m.mode != modeConfirmClear {
		t.Fatalf("mode = %v", m.mode)
	}
	m = update(t, m, runes("n"))
	if m.list.Len() != 3 || store.saves != 0 {
		t.Fatalf("declined clear changed state: len %d saves %d", m.list.Len(), store.saves)
	}

	scr := m.layout()
	m = clickAt(t, m, scr.clear.start, scr.statsY)
	if m.mode != modeConfirmClear {
		t.Fatalf("clear control did not ask for confirmation, mode = %v", m.mode)
	}
	m = update(t, m, runes("y"))
	if m.list.Len() != 0 || len(store.tasks) != 0 {
		t.Fatalf("confirmed clear left list %d store %d", m.list.Len(), len(store.tasks))
	}
	assertInSync(t, m)
}

func TestNoticePanelToggles(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)
	if !strings.Contains(m.View(), noticeCollapseLabel) {
		t.Fatal("guide should start expanded")
	}
	m = clickAt(t, m, 0, m.layout().noticeY)
	if m.noticeOpen || !strings.Contains(m.View(), noticeExpandLabel) {
		t.Fatal("header click did not collapse the guide")
	}
	m = update(t, m, runes("?"))
	if !m.noticeOpen {
		t.Fatal("? did not expand the guide")
	}
	if store.saves != 0 {
		t.Fatal("guide state was persisted")
	}
}

func TestRowsTrackLayoutAfterNoticeToggle(t *testing.T) {
	m := newTestModel(t, &memStore{tasks: abc()})
	open := m.layout().rows[0].y
	m.toggleNotice()
	closed := m.layout().rows[0].y
	if closed >= open {
		t.Fatalf("collapsing the guide should move rows up: open %d closed %d", open, closed)
	}
	m = clickLabel(t, m, 0)
	if tk, _ := m.list.At(0); !tk.Completed {
		t.Fatal("click after collapse hit the wrong row")
	}
}

func TestSaveFailureKeepsListAndReports(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	m := newTestModel(t, &memStore{tasks: abc()})
	m.store = store
	m = update(t, m, runes("d"))
	if m.list.Len() != 2 {
		t.Fatalf("len = %d", m.list.Len())
	}
	if !strings.Contains(m.status, "save failed: disk full") {
		t.Fatalf("status = %q", m.status)
	}
	assertInSync(t, m)
}

func TestCopyUsesClipboard(t *testing.T) {
	m := newTestModel(t, &memStore{tasks: abc()})
	var copied string
	m.copyText = func(s string) error { copied = s; return nil }
	m = update(t, m, keyDown)
	m = update(t, m, runes("y"))
	if copied != "B" {
		t.Fatalf("copied %q", copied)
	}
}

func TestRandomOperationsStayInSync(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)
	rng := rand.New(rand.NewSource(7))
	words := []string{"alpha", "beta", "gamma", "delta", "  ", ""}

	for step := 0; step < 300; step++ {
		n := m.list.Len()
		switch op := rng.Intn(6); {
		case op == 0 || n == 0:
			m.input.SetValue(words[rng.Intn(len(words))])
			m.addFromInput()
		case op == 1:
			m.toggleAt(rng.Intn(n))
		case op == 2:
			m.openRename(rng.Intn(n))
			v := words[rng.Intn(len(words))]
			m.finishRename(&v)
		case op == 3:
			m.deleteAt(rng.Intn(n))
		case op == 4:
			m.drag.start(rng.Intn(n))
			m.dragOver(rng.Intn(n))
			m.drag.drop()
		case op == 5:
			m.cursor = rng.Intn(n)
			m = update(t, m, keySpace)
		}
		assertInSync(t, m)
		if !reflect.DeepEqual(store.Load(), m.list.Tasks()) && store.saves > 0 {
			t.Fatalf("step %d: store out of date", step)
		}
	}
}

func numbered(n int) []task.Task {
	tasks := make([]task.Task, n)
	for i := range tasks {
		tasks[i] = task.Task{Text: fmt.Sprintf("T%02d", i)}
	}
	return tasks
}

// assertFrameMatches checks every visible hit box against the drawn frame.
func assertFrameMatches(t *testing.T, m Model) screen {
	t.Helper()
	lines := strings.Split(m.View(), "\n")
	if len(lines) > m.height {
		t.Fatalf("view has %d lines, terminal has %d", len(lines), m.height)
	}
	scr := m.layout()
	for i, box := range scr.rows {
		if !box.visible() {
			continue
		}
		if box.y >= len(lines) || !strings.Contains(lines[box.y], m.rows[i].Text) {
			t.Fatalf("row %d (%s) has y %d, which is not where it is drawn", i, m.rows[i].Text, box.y)
		}
	}
	return scr
}

func TestShortTerminalClicksHitVisibleRows(t *testing.T) {
	store := &memStore{tasks: numbered(12)}
	m := newTestModel(t, store)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	scr := assertFrameMatches(t, m)
	if scr.rows[11].visible() {
		t.Fatal("12 rows and an open guide should not fit in 24 lines")
	}

	for i := 0; i < 11; i++ {
		m = update(t, m, keyDown)
	}
	scr = assertFrameMatches(t, m)
	if scr.rows[0].visible() || !scr.rows[11].visible() {
		t.Fatal("row window did not follow the cursor to the end")
	}

	first := -1
	for i, box := range scr.rows {
		if box.visible() {
			first = i
			break
		}
	}
	m = clickAt(t, m, scr.rows[first].label.start, scr.rows[first].y)
	if tk, _ := m.list.At(first); !tk.Completed {
		t.Fatalf("label click did not toggle T%02d", first)
	}
	for i := 0; i < 12; i++ {
		if tk, _ := m.list.At(i); tk.Completed != (i == first) {
			t.Fatalf("task %d completed = %v", i, tk.Completed)
		}
	}

	scr = assertFrameMatches(t, m)
	m = clickAt(t, m, scr.rows[11].delete.start, scr.rows[11].y)
	want := textsOf(numbered(11))
	if got := textsOf(store.tasks); !reflect.DeepEqual(got, want) {
		t.Fatalf("after deleting T11: %v", got)
	}
	assertInSync(t, m)
}

func TestTinyTerminalCropsFrame(t *testing.T) {
	m := newTestModel(t, &memStore{tasks: numbered(5)})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 8})
	scr := assertFrameMatches(t, m)
	if scr.noticeY != -1 {
		t.Fatalf("title area should be cropped away, notice y = %d", scr.noticeY)
	}
	visible := 0
	for _, box := range scr.rows {
		if box.visible() {
			visible++
		}
	}
	if visible == 0 {
		t.Fatal("no row left on screen")
	}
}
