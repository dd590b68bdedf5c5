package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"tudu/internal/config"
)

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Toggle       key.Binding
	Add          key.Binding
	Rename       key.Binding
	Delete       key.Binding
	Clear        key.Binding
	Notice       key.Binding
	Grab         key.Binding
	Copy         key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
	Quit         key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up+"/↑", "up")),
		Down:         key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down+"/↓", "down")),
		Toggle:       key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(keyLabel(k.Toggle), "toggle")),
		Add:          key.NewBinding(key.WithKeys(k.Add, "i"), key.WithHelp(k.Add, "add")),
		Rename:       key.NewBinding(key.WithKeys(k.Rename), key.WithHelp(k.Rename, "rename")),
		Delete:       key.NewBinding(key.WithKeys(k.Delete, "x"), key.WithHelp(k.Delete, "delete")),
		Clear:        key.NewBinding(key.WithKeys(k.Clear), key.WithHelp(k.Clear, "clear all")),
		Notice:       key.NewBinding(key.WithKeys(k.Notice), key.WithHelp(k.Notice, "guide")),
		Grab:         key.NewBinding(key.WithKeys(k.Grab), key.WithHelp(k.Grab, "move")),
		Copy:         key.NewBinding(key.WithKeys(k.Copy), key.WithHelp(k.Copy, "copy")),
		NextCategory: key.NewBinding(key.WithKeys(k.NextCategory), key.WithHelp(k.NextCategory, "category")),
		PrevCategory: key.NewBinding(key.WithKeys(k.PrevCategory), key.WithHelp(k.PrevCategory, "prev category")),
		Confirm:      key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "confirm")),
		Cancel:       key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "cancel")),
		Quit:         key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
	}
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Rename, k.Delete, k.Grab, k.Clear, k.Notice, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Rename, k.Delete},
		{k.Add, k.NextCategory, k.PrevCategory, k.Grab},
		{k.Clear, k.Copy, k.Notice, k.Quit},
	}
}
