package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/streambox/internal/app"
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
)

// listenStateCmd waits for the next state snapshot
func listenStateCmd(ch <-chan state.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return StateClosedMsg{}
		}
		return StateMsg{State: st}
	}
}

// BrowseCmd loads a category. Results arrive as state snapshots.
func BrowseCmd(a *app.App, category domain.Category) tea.Cmd {
	return func() tea.Msg {
		if err := a.Browse(context.Background(), category); err != nil && !errors.Is(err, context.Canceled) {
			return ErrMsg{Err: err, Context: "loading " + string(category)}
		}
		return nil
	}
}

// RefreshCmd repeats the current catalog load
func RefreshCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		if err := a.Loader.Reload(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			return ErrMsg{Err: err, Context: "refreshing"}
		}
		return nil
	}
}

// LoadDetailsCmd fetches the full record of item
func LoadDetailsCmd(a *app.App, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		full, err := a.Details(ctx, item)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading details"}
		}
		return DetailsLoadedMsg{Item: *full}
	}
}

// ToggleFavouriteCmd adds or removes item from favourites
func ToggleFavouriteCmd(a *app.App, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		on, err := a.Favourites.Toggle(item)
		return FavouriteToggledMsg{Title: item.Title, On: on, Err: err}
	}
}

// ToggleThemeCmd switches between light and dark
func ToggleThemeCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		a.Theme.Toggle()
		return nil
	}
}

// OpenCmd opens the public page of item
func OpenCmd(a *app.App, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		if err := a.OpenInBrowser(item); err != nil {
			return ErrMsg{Err: err, Context: "opening browser"}
		}
		return OpenedMsg{Title: item.Title}
	}
}

// UpdateProfileCmd validates and saves an edited profile
func UpdateProfileCmd(a *app.App, p domain.Profile) tea.Cmd {
	return func() tea.Msg {
		saved, err := a.UpdateProfile(p)
		return ProfileSavedMsg{Profile: saved, Err: err}
	}
}

// LogoutCmd ends the session
func LogoutCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		a.Logout()
		return LoggedOutMsg{}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
