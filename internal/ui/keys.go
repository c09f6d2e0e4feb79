package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer's keyboard bindings.
type KeyMap struct {
	Lower      key.Binding
	Raise      key.Binding
	Commit     key.Binding
	ToggleChat key.Binding
	CloseChat  key.Binding
	Send       key.Binding
	Back       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Lower: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "lower"),
		),
		Raise: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "raise"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply level"),
		),
		ToggleChat: key.NewBinding(
			key.WithKeys("tab", "ctrl+t"),
			key.WithHelp("tab", "chat"),
		),
		CloseChat: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close chat"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "back"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// viewerHelp lists the bindings shown while the chat is closed.
func (k KeyMap) viewerHelp() []key.Binding {
	return []key.Binding{k.Lower, k.Raise, k.Commit, k.ToggleChat, k.Back, k.Quit}
}

// chatHelp lists the bindings shown while the chat is open.
func (k KeyMap) chatHelp() []key.Binding {
	return []key.Binding{k.Send, k.CloseChat, k.ToggleChat, k.ScrollUp, k.ScrollDown}
}
