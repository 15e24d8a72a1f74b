package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Pick    key.Binding
	Act     key.Binding
	Rotate  key.Binding
	Finish  key.Binding
	EndTurn key.Binding
	Reboot  key.Binding
	Cancel  key.Binding
	NewGame key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Pick:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "select card / queue effect")),
		Act:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play / confirm / resolve at cursor")),
		Rotate:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rotate")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish card")),
		EndTurn: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end turn")),
		Reboot:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "reboot with selected SYS/RESET")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect")),
		NewGame: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new run")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Act, k.Rotate, k.EndTurn, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Pick, k.Act, k.Rotate, k.Cancel},
		{k.Finish, k.EndTurn, k.Reboot},
		{k.NewGame, k.Help, k.Quit},
	}
}
