package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the form's bindings.
type KeyMap struct {
	Submit    key.Binding
	Info      key.Binding
	CloseInfo key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "greet"),
		),
		Info: key.NewBinding(
			key.WithKeys("tab", "f1"),
			key.WithHelp("tab", "more info"),
		),
		CloseInfo: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close info"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Info, k.CloseInfo, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
