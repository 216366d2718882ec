package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Up         key.Binding
	Down       key.Binding
	Submit     key.Binding
	Shuffle    key.Binding
	NewSeed    key.Binding
	Reset      key.Binding
	ClearHands key.Binding
	Toggle     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev field")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next field")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Shuffle:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "shuffle")),
		NewSeed:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new seed")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		ClearHands: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear hands")),
		Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
	}
}

// help lists the bindings relevant to tab.
func (k keyMap) help(tab string) []key.Binding {
	common := []key.Binding{k.NextTab, k.Quit}
	switch tab {
	case TabSettings:
		return append([]key.Binding{k.Up, k.Down, k.Toggle}, common...)
	case TabRoulette:
		return append([]key.Binding{k.Submit, k.NewSeed, k.Reset}, common...)
	case TabCards:
		return append([]key.Binding{k.Submit, k.Shuffle, k.ClearHands, k.NewSeed, k.Reset}, common...)
	default:
		return append([]key.Binding{k.Submit, k.Reset}, common...)
	}
}
