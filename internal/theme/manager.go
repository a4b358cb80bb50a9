package theme

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
)

// Manager owns the light/dark preference
type Manager struct {
	kv     domain.KeyValueStore
	writer *store.Writer
	state  *state.Store
	logger *slog.Logger

	mu sync.Mutex
}

// NewManager creates a theme manager
func NewManager(kv domain.KeyValueStore, writer *store.Writer, st *state.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{kv: kv, writer: writer, state: st, logger: logger}
}

// LoadCached reads the stored preference into state.
// Missing or unknown values load as light.
func (m *Manager) LoadCached() domain.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Dispatch(state.ThemeLoading{})

	t := domain.ThemeLight
	raw, ok, err := m.kv.Get(store.KeyTheme)
	switch {
	case err != nil:
		m.logger.Warn("failed to load theme", "error", err)
	case ok && domain.Theme(raw).Valid():
		t = domain.Theme(raw)
	case ok:
		m.logger.Warn("ignoring unknown stored theme", "theme", raw)
	}

	m.state.Dispatch(state.ThemeSet{Theme: t})
	return t
}

// Toggle switches between light and dark and returns the new theme
func (m *Manager) Toggle() domain.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, _ := m.state.Dispatch(state.ThemeToggled{})
	m.persist(st.Theme.Theme)
	return st.Theme.Theme
}

// Set selects t. Unknown themes are rejected with the current theme unchanged.
func (m *Manager) Set(t domain.Theme) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !t.Valid() {
		m.logger.Warn("rejected unknown theme", "theme", t)
		return false
	}
	m.state.Dispatch(state.ThemeSet{Theme: t})
	m.persist(t)
	return true
}

func (m *Manager) persist(t domain.Theme) {
	if err := m.writer.Set(store.KeyTheme, string(t)); err != nil {
		m.logger.Error("failed to queue theme write", "theme", t, "error", err)
	}
}
