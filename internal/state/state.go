// Package state holds the process-wide observable state tree.
//
// A State value is an immutable snapshot: reducers never modify slices or
// pointed-to records in place, they build new ones. Readers must treat every
// field as read-only.
package state

import (
	"time"

	"github.com/mmcdole/streambox/internal/domain"
)

// State is one fully-applied snapshot of the client state
type State struct {
	Version    uint64 // Incremented on every applied change
	Session    SessionState
	Profile    ProfileState
	Favourites FavouritesState
	Theme      ThemeState
	Catalog    CatalogState
}

// Initial returns the state every sub-state starts in
func Initial() State {
	return State{
		Theme:   ThemeState{Theme: domain.ThemeLight},
		Catalog: CatalogState{Category: domain.CategoryAll},
	}
}

// SessionState tracks the authenticated user
type SessionState struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
	Loading   bool
	Error     string
}

// IsAuthenticated holds iff both user and token are present
func (s SessionState) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// Session returns the domain session view
func (s SessionState) Session() domain.Session {
	return domain.Session{User: s.User, Token: s.Token, ExpiresAt: s.ExpiresAt}
}

// ProfileState tracks the user-editable profile
type ProfileState struct {
	Profile *domain.Profile
	Loading bool
	Error   string
}

// FavouritesState tracks the favourites of the bound user.
// UserID is empty when no user namespace is bound.
type FavouritesState struct {
	UserID  string
	Items   []domain.CatalogItem
	Loading bool
}

// Contains reports whether an item with id is in the set
func (f FavouritesState) Contains(id int) bool {
	for _, item := range f.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// ThemeState tracks the colour scheme
type ThemeState struct {
	Theme   domain.Theme
	Loading bool
}

// CatalogStatus is the render state of the last catalog request
type CatalogStatus int

const (
	CatalogIdle CatalogStatus = iota
	CatalogLoading
	CatalogError
	CatalogEmpty
	CatalogPopulated
)

// String returns a human-readable representation of the status
func (c CatalogStatus) String() string {
	switch c {
	case CatalogIdle:
		return "Idle"
	case CatalogLoading:
		return "Loading"
	case CatalogError:
		return "Error"
	case CatalogEmpty:
		return "Empty"
	case CatalogPopulated:
		return "Populated"
	default:
		return "Unknown"
	}
}

// CatalogState holds the last-fetched catalog.
// Seq identifies the current request; results for any other Seq are stale.
type CatalogState struct {
	Category  domain.Category
	Query     string
	Seq       uint64
	Items     []domain.CatalogItem
	Loading   bool
	Error     string
	Requested bool // false until the first request
}

// Status returns which of loading/error/empty/populated to render
func (c CatalogState) Status() CatalogStatus {
	switch {
	case !c.Requested:
		return CatalogIdle
	case c.Loading:
		return CatalogLoading
	case c.Error != "":
		return CatalogError
	case len(c.Items) == 0:
		return CatalogEmpty
	default:
		return CatalogPopulated
	}
}

// Find returns the loaded item with id
func (c CatalogState) Find(id int) (domain.CatalogItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}
