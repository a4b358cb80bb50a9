package favourites

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
)

const flushTimeout = 5 * time.Second

// Manager owns the favourites set of the bound user. State is updated
// synchronously; the resulting set is persisted through the ordered writer.
type Manager struct {
	kv     domain.KeyValueStore
	writer *store.Writer
	state  *state.Store
	logger *slog.Logger

	mu sync.Mutex // Keeps write order equal to dispatch order
}

// NewManager creates a favourites manager
func NewManager(kv domain.KeyValueStore, writer *store.Writer, st *state.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		kv:     kv,
		writer: writer,
		state:  st,
		logger: logger,
	}
}

// LoadForUser binds the favourites namespace to userID and replaces the
// in-memory set with the stored one. Unreadable storage yields an empty set.
func (m *Manager) LoadForUser(ctx context.Context, userID string) []domain.CatalogItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Dispatch(state.FavouritesLoading{UserID: userID})

	// Pending writes for this user must land before we read them back
	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := m.writer.Flush(flushCtx); err != nil {
		m.logger.Warn("favourites flush before load failed", "userID", userID, "error", err)
	}

	var items []domain.CatalogItem
	if _, err := store.GetJSON(m.kv, store.FavouritesKey(userID), &items); err != nil {
		m.logger.Warn("failed to load favourites", "userID", userID, "error", err)
		items = nil
	}

	st, _ := m.state.Dispatch(state.FavouritesLoaded{UserID: userID, Items: items})
	m.logger.Debug("favourites loaded", "userID", userID, "count", len(st.Favourites.Items))
	return st.Favourites.Items
}

// Add inserts item unless an item with the same id is present
func (m *Manager) Add(item domain.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, changed := m.state.Dispatch(state.FavouriteAdded{Item: item})
	if !changed {
		return nil
	}
	return m.persist(st.Favourites)
}

// Remove deletes the item with id. A missing id is a no-op with no write.
func (m *Manager) Remove(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, changed := m.state.Dispatch(state.FavouriteRemoved{ID: id})
	if !changed {
		return nil
	}
	return m.persist(st.Favourites)
}

// Toggle adds item when absent and removes it otherwise.
// It reports whether item is a favourite afterwards.
func (m *Manager) Toggle(item domain.CatalogItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, _ := m.state.Dispatch(state.FavouriteToggled{Item: item})
	return st.Favourites.Contains(item.ID), m.persist(st.Favourites)
}

// IsFavourite reports whether id is in the current set
func (m *Manager) IsFavourite(id int) bool {
	return m.state.Snapshot().Favourites.Contains(id)
}

// ClearSessionView empties the in-memory set and unbinds the namespace.
// Stored favourites are kept.
func (m *Manager) ClearSessionView() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Dispatch(state.FavouritesCleared{})
}

// persist enqueues the full set under the bound namespace. With no user
// bound it returns domain.ErrNoUserBound; the in-memory change stands.
func (m *Manager) persist(f state.FavouritesState) error {
	if f.UserID == "" {
		m.logger.Warn("favourites changed with no user bound", "count", len(f.Items))
		return domain.ErrNoUserBound
	}

	items := f.Items
	if items == nil {
		items = []domain.CatalogItem{}
	}
	if err := m.writer.SetJSON(store.FavouritesKey(f.UserID), items); err != nil {
		m.logger.Error("failed to queue favourites write", "userID", f.UserID, "error", err)
		return err
	}
	return nil
}
