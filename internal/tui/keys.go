package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Notice
	New         key.Binding
	Close       key.Binding
	Restart     key.Binding
	Longer      key.Binding
	Shorter     key.Binding
	ToggleHover key.Binding
	ToggleMount key.Binding
	CopyHTML    key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Close, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Close, k.Restart},
		{k.Longer, k.Shorter, k.ToggleHover},
		{k.ToggleMount, k.CopyHTML},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new notice"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "bump update mark"),
		),
		Longer: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "longer duration"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "shorter duration"),
		),
		ToggleHover: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle hover"),
		),
		ToggleMount: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle mount target"),
		),
		CopyHTML: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy HTML"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
