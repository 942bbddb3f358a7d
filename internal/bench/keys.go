package bench

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	AddRows     key.Binding
	RemoveRows  key.Binding
	GrowCells   key.Binding
	ShrinkCells key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		AddRows: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "add rows"),
		),
		RemoveRows: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "remove rows"),
		),
		GrowCells: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "bigger cells"),
		),
		ShrinkCells: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "smaller cells"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddRows, k.RemoveRows, k.GrowCells, k.ShrinkCells, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddRows, k.RemoveRows},
		{k.GrowCells, k.ShrinkCells},
		{k.Quit},
	}
}
