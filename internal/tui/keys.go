package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up           key.Binding
	Down         key.Binding
	Home         key.Binding
	End          key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Enter        key.Binding

	// Actions
	Search          key.Binding
	Filter          key.Binding
	ToggleFavourite key.Binding
	Favourites      key.Binding
	Theme           key.Binding
	Open            key.Binding
	Refresh         key.Binding
	Logout          key.Binding
	Profile         key.Binding
	EditProfile     key.Binding
	Help            key.Binding
	Escape          key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab", "prev category"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter favourites"),
		),
		ToggleFavourite: key.NewBinding(
			key.WithKeys(" ", "*"),
			key.WithHelp("space", "favourite"),
		),
		Favourites: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "favourites"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profile"),
		),
		EditProfile: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit profile"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns bindings for the mini help view (implements help.KeyMap)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextCategory, k.ToggleFavourite, k.Favourites, k.Help, k.Quit}
}

// FullHelp returns bindings for the expanded help view (implements help.KeyMap)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Home, k.End},
		{k.NextCategory, k.PrevCategory, k.Enter, k.Escape},
		{k.Search, k.Filter, k.ToggleFavourite, k.Favourites},
		{k.Theme, k.Open, k.Refresh, k.Profile, k.EditProfile},
		{k.Logout, k.Help, k.Quit},
	}
}
