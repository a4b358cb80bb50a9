package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/store"
)

func TestToggleSurvivesRestart(t *testing.T) {
	path := t.TempDir() + "/streambox.db"

	kv, err := store.Open(path)
	require.NoError(t, err)
	w := store.NewWriter(kv, nil)
	m := NewManager(kv, w, state.New(nil), nil)

	assert.Equal(t, domain.ThemeLight, m.LoadCached())
	assert.Equal(t, domain.ThemeDark, m.Toggle())

	require.NoError(t, w.Close())
	require.NoError(t, kv.Close())

	kv, err = store.Open(path)
	require.NoError(t, err)
	defer kv.Close()
	w = store.NewWriter(kv, nil)
	defer w.Close()

	st := state.New(nil)
	assert.Equal(t, domain.ThemeDark, NewManager(kv, w, st, nil).LoadCached())
	assert.Equal(t, domain.ThemeDark, st.Snapshot().Theme.Theme)
	assert.False(t, st.Snapshot().Theme.Loading)
}

func TestInvalidStoredThemeLoadsLight(t *testing.T) {
	kv := store.NewMemory()
	defer kv.Close()
	w := store.NewWriter(kv, nil)
	defer w.Close()
	require.NoError(t, kv.Set(store.KeyTheme, "sepia"))

	assert.Equal(t, domain.ThemeLight, NewManager(kv, w, state.New(nil), nil).LoadCached())
}

func TestSet(t *testing.T) {
	kv := store.NewMemory()
	defer kv.Close()
	w := store.NewWriter(kv, nil)
	defer w.Close()
	st := state.New(nil)
	m := NewManager(kv, w, st, nil)

	assert.False(t, m.Set("sepia"))
	assert.Equal(t, domain.ThemeLight, st.Snapshot().Theme.Theme)

	assert.True(t, m.Set(domain.ThemeDark))
	require.NoError(t, w.Flush(context.Background()))

	raw, ok, err := kv.Get(store.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", raw)
}
