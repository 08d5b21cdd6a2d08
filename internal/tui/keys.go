package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	SwitchPane  key.Binding
	Select      key.Binding
	Toggle      key.Binding
	AllFolders  key.Binding
	Search      key.Binding
	CycleTag    key.Binding
	Favorite    key.Binding
	Delete      key.Binding
	AddBookmark key.Binding
	AddFolder   key.Binding
	YankURL     key.Binding
	ClearFilter key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select/open"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "fold folder"),
		),
		AllFolders: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "all bookmarks"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CycleTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle tag"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		AddBookmark: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add bookmark"),
		),
		AddFolder: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add folder"),
		),
		YankURL: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "yank url"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filters"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpGroup is a titled section of the help overlay.
type helpGroup struct {
	Title string
	Keys  []key.Binding
}

// helpColumns lays the bindings out as the two overlay columns.
func (k KeyMap) helpColumns() [2][]helpGroup {
	return [2][]helpGroup{
		{
			{"nav", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.SwitchPane, k.Select, k.Toggle}},
			{"filter", []key.Binding{k.Search, k.CycleTag, k.AllFolders, k.ClearFilter}},
		},
		{
			{"edit", []key.Binding{k.AddBookmark, k.AddFolder, k.Favorite, k.Delete}},
			{"act", []key.Binding{k.YankURL, k.Quit}},
		},
	}
}
