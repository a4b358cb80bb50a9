// Package app composes the client core: storage, state, the catalog adapter
// and the managers. The UI talks to an *App and renders state snapshots.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/streambox/internal/adapter"
	"github.com/mmcdole/streambox/internal/auth"
	"github.com/mmcdole/streambox/internal/catalog"
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/favourites"
	"github.com/mmcdole/streambox/internal/profile"
	"github.com/mmcdole/streambox/internal/search"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
	"github.com/mmcdole/streambox/internal/theme"
)

// App is the constructed client container
type App struct {
	Config *adapter.Config
	Logger *slog.Logger

	State      *state.Store
	KV         *store.KVStore
	Writer     *store.Writer
	Catalog    *catalog.Client
	Loader     *catalog.Loader
	Auth       *auth.Manager
	Profile    *profile.Manager
	Favourites *favourites.Manager
	Theme      *theme.Manager
	Launcher   *adapter.Launcher
}

// Open builds an App from configuration. The caller must Close it.
func Open(cfg *adapter.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kv, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if cfg.Storage.Path == "" {
		logger.Info("storage is memory only")
	}

	st := state.New(logger.With("component", "state"))
	writer := store.NewWriter(kv, logger.With("component", "writer"))

	client := catalog.NewClient(catalog.Options{
		BaseURL:      cfg.Catalog.BaseURL,
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
		APIKey:       cfg.Catalog.APIKey,
		Timeout:      cfg.Catalog.Timeout,
	}, logger.With("component", "catalog"))

	authClient := auth.NewClient(cfg.Auth.BaseURL, cfg.Auth.Timeout, logger.With("component", "auth"))

	return &App{
		Config:     cfg,
		Logger:     logger,
		State:      st,
		KV:         kv,
		Writer:     writer,
		Catalog:    client,
		Loader:     catalog.NewLoader(search.RankedSource{Source: client}, st, cfg.Catalog.Debounce, logger.With("component", "loader")),
		Auth:       auth.NewManager(kv, authClient, st, auth.Options{BcryptCost: cfg.Auth.BcryptCost}, logger.With("component", "auth")),
		Profile:    profile.NewManager(kv, authClient, st, logger.With("component", "profile")),
		Favourites: favourites.NewManager(kv, writer, st, logger.With("component", "favourites")),
		Theme:      theme.NewManager(kv, writer, st, logger.With("component", "theme")),
		Launcher:   adapter.NewLauncher(cfg.UI.Browser, cfg.UI.BrowserArgs, logger),
	}, nil
}

// Close stops background work, drains pending writes and closes storage
func (a *App) Close() error {
	a.Loader.Close()
	werr := a.Writer.Close()
	a.State.Close()
	kerr := a.KV.Close()
	return errors.Join(werr, kerr)
}

// Start loads cached preferences and restores a persisted session.
// It reports whether a session was restored.
func (a *App) Start(ctx context.Context) bool {
	a.Theme.LoadCached()
	a.Profile.LoadCached()

	session, ok := a.Auth.Restore()
	if !ok {
		return false
	}
	a.afterLogin(ctx, session)
	return true
}

// Login signs in and loads the user's data
func (a *App) Login(ctx context.Context, username, password string) (domain.Session, error) {
	session, err := a.Auth.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	a.afterLogin(ctx, session)
	return session, nil
}

// Register creates a local account, signs in and loads the user's data
func (a *App) Register(ctx context.Context, username, password string) (domain.Session, error) {
	session, err := a.Auth.Register(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	a.afterLogin(ctx, session)
	return session, nil
}

// afterLogin binds favourites to the user and refreshes a remote profile.
// Profile failures are recorded in state and do not fail the login.
func (a *App) afterLogin(ctx context.Context, session domain.Session) {
	a.Favourites.LoadForUser(ctx, session.User.Key())

	if auth.IsLocalToken(session.Token) {
		return
	}
	if _, err := a.Profile.FetchRemote(ctx, session.Token); err != nil {
		a.Logger.Warn("profile refresh after login failed", "error", err)
	}
}

// Logout ends the session, clears the favourites view and removes the
// stored profile. Stored favourites are kept.
func (a *App) Logout() {
	a.Auth.Logout()
	a.Favourites.ClearSessionView()
	a.Profile.Clear()
}

// UpdateProfile validates p and saves it as the current profile. The
// avatar is carried over from the current profile.
func (a *App) UpdateProfile(p domain.Profile) (domain.Profile, error) {
	if err := profile.Validate(p); err != nil {
		return domain.Profile{}, err
	}
	if cur := a.State.Snapshot().Profile.Profile; cur != nil {
		p.Avatar = cur.Avatar
	}
	return a.Profile.Update(p)
}

// Browse loads category with the latest typed query
func (a *App) Browse(ctx context.Context, category domain.Category) error {
	return a.Loader.SetCategory(ctx, category)
}

// Search debounces a typed query into a catalog load
func (a *App) Search(query string) {
	a.Loader.Search(query)
}

// Details fetches the full record of item
func (a *App) Details(ctx context.Context, item domain.CatalogItem) (*domain.CatalogItem, error) {
	return a.Catalog.Details(ctx, item.MediaType, item.ID)
}

// OpenInBrowser opens the public page of item
func (a *App) OpenInBrowser(item domain.CatalogItem) error {
	return a.Launcher.Launch(catalog.WebURL(item))
}
