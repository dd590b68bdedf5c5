// Package task holds the in-memory to-do list.
package task

import (
	"fmt"
	"strings"
)

// Task is a single to-do entry. It has no id: a task is identified by its
// position in the List.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category,omitempty"`
}

// Stats summarises a list.
type Stats struct {
	Total       int
	Completed   int
	Uncompleted int
}

// StatsLine formats s as the sentence shown under the list.
func StatsLine(s Stats) string {
	return fmt.Sprintf("Total %d tasks, %d completed, %d remaining", s.Total, s.Completed, s.Uncompleted)
}

// List is the ordered task sequence. Display order, storage order and drag
// order are all the slice order.
type List struct {
	tasks []Task
}

// NewList returns a list holding a copy of tasks.
func NewList(tasks []Task) *List {
	l := &List{}
	l.Replace(tasks)
	return l
}

func (l *List) Len() int {
	return len(l.tasks)
}

// At returns the task at i. ok is false when i is out of range.
func (l *List) At(i int) (Task, bool) {
	if i < 0 || i >= len(l.tasks) {
		return Task{}, false
	}
	return l.tasks[i], true
}

// Tasks returns a copy of the sequence.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Add appends a new uncompleted task. Blank text is ignored.
func (l *List) Add(text, category string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	l.tasks = append(l.tasks, Task{Text: text, Category: strings.TrimSpace(category)})
	return true
}

func (l *List) Toggle(i int) bool {
	if i < 0 || i >= len(l.tasks) {
		return false
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	return true
}

// Rename replaces the text at i with the trimmed text. Blank text is ignored.
func (l *List) Rename(i int, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || i < 0 || i >= len(l.tasks) {
		return false
	}
	l.tasks[i].Text = text
	return true
}

// Remove deletes the task at i; later tasks shift down by one.
func (l *List) Remove(i int) bool {
	if i < 0 || i >= len(l.tasks) {
		return false
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return true
}

func (l *List) Clear() {
	l.tasks = nil
}

// Replace swaps the whole sequence for a copy of tasks.
func (l *List) Replace(tasks []Task) {
	l.tasks = make([]Task, len(tasks))
	copy(l.tasks, tasks)
}

// Move takes the task at from and reinserts it so that it ends up at index to.
func (l *List) Move(from, to int) bool {
	n := len(l.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	t := l.tasks[from]
	rest := append(l.tasks[:from:from], l.tasks[from+1:]...)
	out := make([]Task, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, t)
	out = append(out, rest[to:]...)
	l.tasks = out
	return true
}

func (l *List) Stats() Stats {
	s := Stats{Total: len(l.tasks)}
	for _, t := range l.tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Uncompleted = s.Total - s.Completed
	return s
}
