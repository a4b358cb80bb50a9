package tui

import (
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StateMsg carries a new state snapshot
type StateMsg struct {
	State state.State
}

// StateClosedMsg signals that the state subscription ended
type StateClosedMsg struct{}

// DetailsLoadedMsg carries the full record of the selected title
type DetailsLoadedMsg struct {
	Item domain.CatalogItem
}

// FavouriteToggledMsg reports the outcome of a favourite toggle
type FavouriteToggledMsg struct {
	Title string
	On    bool
	Err   error // domain.ErrNoUserBound when the change was not persisted
}

// OpenedMsg signals that a title page was handed to the browser
type OpenedMsg struct {
	Title string
}

// ProfileSavedMsg reports the outcome of a profile edit
type ProfileSavedMsg struct {
	Profile domain.Profile
	Err     error // *profile.ValidationError or *domain.ProfileSaveError
}

// LoggedOutMsg signals that logout finished
type LoggedOutMsg struct{}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}
