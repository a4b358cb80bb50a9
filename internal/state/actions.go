package state

import (
	"slices"
	"time"

	"github.com/mmcdole/streambox/internal/domain"
)

// Action is a state transition. Actions are applied by Store.Dispatch.
type Action interface {
	isAction()
}

// Session actions

type LoginStarted struct{}

type LoginSucceeded struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

type LoginFailed struct {
	Err string
}

type LoggedOut struct{}

// Profile actions

type ProfileLoading struct{}

type ProfileLoaded struct {
	Profile *domain.Profile // nil when nothing is cached
}

type ProfileFailed struct {
	Err string
}

type ProfileReset struct{}

// Favourites actions

type FavouritesLoading struct {
	UserID string
}

type FavouritesLoaded struct {
	UserID string
	Items  []domain.CatalogItem
}

type FavouriteAdded struct {
	Item domain.CatalogItem
}

type FavouriteRemoved struct {
	ID int
}

type FavouriteToggled struct {
	Item domain.CatalogItem
}

// FavouritesCleared empties the in-memory set and unbinds the user
type FavouritesCleared struct{}

// Theme actions

type ThemeLoading struct{}

type ThemeSet struct {
	Theme domain.Theme
}

type ThemeToggled struct{}

// Catalog actions

// CatalogRequested starts a new request and assigns it the next sequence number
type CatalogRequested struct {
	Category domain.Category
	Query    string
}

type CatalogLoaded struct {
	Seq   uint64
	Items []domain.CatalogItem
}

type CatalogFailed struct {
	Seq uint64
	Err string
}

type CatalogCleared struct{}

func (LoginStarted) isAction()      {}
func (LoginSucceeded) isAction()    {}
func (LoginFailed) isAction()       {}
func (LoggedOut) isAction()         {}
func (ProfileLoading) isAction()    {}
func (ProfileLoaded) isAction()     {}
func (ProfileFailed) isAction()     {}
func (ProfileReset) isAction()      {}
func (FavouritesLoading) isAction() {}
func (FavouritesLoaded) isAction()  {}
func (FavouriteAdded) isAction()    {}
func (FavouriteRemoved) isAction()  {}
func (FavouriteToggled) isAction()  {}
func (FavouritesCleared) isAction() {}
func (ThemeLoading) isAction()      {}
func (ThemeSet) isAction()          {}
func (ThemeToggled) isAction()      {}
func (CatalogRequested) isAction()  {}
func (CatalogLoaded) isAction()     {}
func (CatalogFailed) isAction()     {}
func (CatalogCleared) isAction()    {}

// reduce applies a to s. It reports false when the action left s unchanged.
func reduce(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case LoginStarted:
		s.Session.Loading = true
		s.Session.Error = ""

	case LoginSucceeded:
		user := a.User
		s.Session = SessionState{User: &user, Token: a.Token, ExpiresAt: a.ExpiresAt}

	case LoginFailed:
		s.Session.Loading = false
		s.Session.Error = a.Err
		s.Session.User = nil
		s.Session.Token = ""
		s.Session.ExpiresAt = time.Time{}

	case LoggedOut:
		s.Session = SessionState{}

	case ProfileLoading:
		s.Profile.Loading = true
		s.Profile.Error = ""

	case ProfileLoaded:
		var p *domain.Profile
		if a.Profile != nil {
			copied := *a.Profile
			p = &copied
		}
		s.Profile = ProfileState{Profile: p}

	case ProfileFailed:
		s.Profile.Loading = false
		s.Profile.Error = a.Err

	case ProfileReset:
		s.Profile = ProfileState{}

	case FavouritesLoading:
		s.Favourites = FavouritesState{UserID: a.UserID, Loading: true}

	case FavouritesLoaded:
		s.Favourites = FavouritesState{UserID: a.UserID, Items: dedupe(a.Items)}

	case FavouriteAdded:
		if s.Favourites.Contains(a.Item.ID) {
			return s, false
		}
		s.Favourites.Items = appendItem(s.Favourites.Items, a.Item)

	case FavouriteRemoved:
		if !s.Favourites.Contains(a.ID) {
			return s, false
		}
		s.Favourites.Items = without(s.Favourites.Items, a.ID)

	case FavouriteToggled:
		if s.Favourites.Contains(a.Item.ID) {
			s.Favourites.Items = without(s.Favourites.Items, a.Item.ID)
		} else {
			s.Favourites.Items = appendItem(s.Favourites.Items, a.Item)
		}

	case FavouritesCleared:
		s.Favourites = FavouritesState{}

	case ThemeLoading:
		s.Theme.Loading = true

	case ThemeSet:
		if !a.Theme.Valid() {
			return s, false
		}
		s.Theme = ThemeState{Theme: a.Theme}

	case ThemeToggled:
		s.Theme = ThemeState{Theme: s.Theme.Theme.Opposite()}

	case CatalogRequested:
		s.Catalog.Category = a.Category
		s.Catalog.Query = a.Query
		s.Catalog.Seq++
		s.Catalog.Loading = true
		s.Catalog.Error = ""
		s.Catalog.Requested = true

	case CatalogLoaded:
		if a.Seq != s.Catalog.Seq {
			return s, false // stale response
		}
		s.Catalog.Items = slices.Clone(a.Items)
		s.Catalog.Loading = false
		s.Catalog.Error = ""

	case CatalogFailed:
		if a.Seq != s.Catalog.Seq {
			return s, false
		}
		s.Catalog.Items = nil
		s.Catalog.Loading = false
		s.Catalog.Error = a.Err

	case CatalogCleared:
		s.Catalog.Items = nil
		s.Catalog.Error = ""

	default:
		return s, false
	}
	return s, true
}

// appendItem returns a new slice; the old one may be shared with an older snapshot
func appendItem(items []domain.CatalogItem, item domain.CatalogItem) []domain.CatalogItem {
	next := make([]domain.CatalogItem, 0, len(items)+1)
	next = append(next, items...)
	return append(next, item)
}

func without(items []domain.CatalogItem, id int) []domain.CatalogItem {
	next := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	return next
}

// dedupe keeps the first occurrence of each id, preserving order
func dedupe(items []domain.CatalogItem) []domain.CatalogItem {
	seen := make(map[int]bool, len(items))
	next := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		next = append(next, item)
	}
	return next
}
