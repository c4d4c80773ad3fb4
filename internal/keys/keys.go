// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ChatKeyMap defines the keybindings for the chat window.
type ChatKeyMap struct {
	// Input
	Send    key.Binding
	Newline key.Binding

	// Message list
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Top        key.Binding
	Bottom     key.Binding

	// General
	ToggleLogs key.Binding
	Quit       key.Binding
}

// Chat holds the chat window bindings.
var Chat = ChatKeyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Newline: key.NewBinding(
		key.WithKeys("alt+enter", "ctrl+j"),
		key.WithHelp("alt+enter", "newline"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll down"),
	),
	Top: key.NewBinding(
		key.WithKeys("ctrl+home"),
		key.WithHelp("ctrl+home", "oldest"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("ctrl+end"),
		key.WithHelp("ctrl+end", "latest"),
	),
	ToggleLogs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ShortHelp returns keybindings for the footer.
func (k ChatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Newline, k.ScrollUp, k.Quit}
}

// FullHelp returns keybindings grouped by area.
func (k ChatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline},
		{k.ScrollUp, k.ScrollDown, k.Top, k.Bottom},
		{k.ToggleLogs, k.Quit},
	}
}
