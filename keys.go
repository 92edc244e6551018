package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Open        key.Binding
	Parent      key.Binding
	Back        key.Binding
	Next        key.Binding
	Reload      key.Binding
	Location    key.Binding
	Filter      key.Binding
	Hidden      key.Binding
	Recent      key.Binding
	SwitchTab   key.Binding
	Rebuild     key.Binding
	PreviewUp   key.Binding
	PreviewDown key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Open:        key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open")),
		Parent:      key.NewBinding(key.WithKeys("backspace", "left", "h", "u"), key.WithHelp("u/←", "up")),
		Back:        key.NewBinding(key.WithKeys("b", "alt+left"), key.WithHelp("b", "back")),
		Next:        key.NewBinding(key.WithKeys("n", "alt+right"), key.WithHelp("n", "next")),
		Reload:      key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "reload")),
		Location:    key.NewBinding(key.WithKeys("ctrl+l", ":"), key.WithHelp("ctrl+l", "location")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Hidden:      key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden files")),
		Recent:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "recent")),
		SwitchTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "settings")),
		Rebuild:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "rebuild")),
		PreviewUp:   key.NewBinding(key.WithKeys("ctrl+u", "K"), key.WithHelp("K", "scroll preview up")),
		PreviewDown: key.NewBinding(key.WithKeys("ctrl+d", "J"), key.WithHelp("J", "scroll preview down")),
		Help:        key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Parent, k.Back, k.Next, k.Filter, k.SwitchTab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Open, k.Parent, k.Back, k.Next, k.Reload},
		{k.Location, k.Filter, k.Hidden, k.Recent, k.PreviewUp, k.PreviewDown},
		{k.SwitchTab, k.Rebuild, k.Help, k.Quit},
	}
}
