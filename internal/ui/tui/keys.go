package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Run        key.Binding
	Delete     key.Binding
	New        key.Binding
	Env        key.Binding
	ManageEnvs key.Binding
	Cookies    key.Binding
	Project    key.Binding
	Settings   key.Binding
	Back       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Close      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Run:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run tests")),
		Delete:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete suite")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new suite")),
		Env:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "environment")),
		ManageEnvs: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "manage environments")),
		Cookies:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cookies")),
		Project:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project")),
		Settings:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Back:       key.NewBinding(key.WithKeys("b", "backspace"), key.WithHelp("b", "back to project")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup", "K"), key.WithHelp("pgup", "scroll results")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown", "J"), key.WithHelp("pgdn", "scroll results")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Run, k.New, k.Env, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Run, k.New, k.Delete},
		{k.Env, k.ManageEnvs, k.Cookies},
		{k.Project, k.Settings, k.ScrollUp, k.ScrollDown},
		{k.Close, k.Help, k.Quit},
	}
}
