package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings shared by every screen.
type keyMap struct {
	Quit       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Confirm    key.Binding
	NextField  key.Binding
	PrevField  key.Binding

	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Profile key.Binding
	Logout  key.Binding

	Register key.Binding
	Login    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		CycleTheme: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add book")),
		Edit:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),

		Register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		Login:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "back to login")),
	}
}
