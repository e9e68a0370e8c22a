package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	SubmitMessage key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
	Quit          key.Binding
}

var DefaultKeyMap = KeyMap{
	SubmitMessage: key.NewBinding(key.WithKeys("enter")),
	ScrollUp:      key.NewBinding(key.WithKeys("pgup", "shift+up")),
	ScrollDown:    key.NewBinding(key.WithKeys("pgdown", "shift+down")),
	Quit:          key.NewBinding(key.WithKeys("ctrl+c")),
}
