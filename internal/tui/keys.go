package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the player bindings. It implements help.KeyMap.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Commit key.Binding
	Prev   key.Binding
	Next   key.Binding
	Jump   key.Binding
	Mode   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		Jump:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "jump")),
		Mode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle order")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "topics")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Prev, k.Next, k.Jump, k.Mode, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Commit},
		{k.Prev, k.Next, k.Jump},
		{k.Mode, k.Back, k.Quit},
	}
}
