package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Spin    key.Binding
	BetUp   key.Binding
	BetDown key.Binding
	BuyMega key.Binding
	BuyHold key.Binding
	Accept  key.Binding
	Decline key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Spin: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "spin"),
		),
		BetUp: key.NewBinding(
			key.WithKeys("+", "=", "up"),
			key.WithHelp("+/↑", "bet up"),
		),
		BetDown: key.NewBinding(
			key.WithKeys("-", "down"),
			key.WithHelp("-/↓", "bet down"),
		),
		BuyMega: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "buy mega wild"),
		),
		BuyHold: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "buy hold & spin"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "enter bonus"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "decline"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Spin, k.BetUp, k.BetDown, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Spin, k.BetUp, k.BetDown},
		{k.BuyMega, k.BuyHold},
		{k.Help, k.Quit},
	}
}
