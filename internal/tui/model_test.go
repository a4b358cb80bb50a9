package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/streambox/internal/adapter"
	"github.com/mmcdole/streambox/internal/app"
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/tui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := adapter.DefaultConfig()
	cfg.Storage.Path = ""
	a, err := app.Open(cfg, adapter.NullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	m := NewModel(a)
	t.Cleanup(m.Close)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func catalogState(titles ...string) state.State {
	st := state.Initial()
	st.Catalog.Requested = true
	for i, title := range titles {
		st.Catalog.Items = append(st.Catalog.Items, domain.CatalogItem{
			ID: i + 1, Title: title, MediaType: domain.MediaTypeMovie, ReleaseDate: "1995-12-15",
		})
	}
	return st
}

func TestCursorMovesWithinCatalog(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, StateMsg{State: catalogState("Heat", "Ronin", "Collateral")})

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	m, _ = update(t, m, runes("g"))
	assert.Equal(t, 0, m.cursor)

	m, _ = update(t, m, runes("G"))
	assert.Equal(t, 2, m.cursor)

	// A shorter result set pulls the cursor back into range
	m, _ = update(t, m, StateMsg{State: catalogState("Heat")})
	assert.Equal(t, 0, m.cursor)
}

func TestViewRendersCatalogStatus(t *testing.T) {
	m := newTestModel(t)

	st := state.Initial()
	st.Catalog.Requested = true
	st.Catalog.Loading = true
	m, _ = update(t, m, StateMsg{State: st})
	assert.Contains(t, m.View(), "Loading...")

	st.Catalog.Loading = false
	st.Catalog.Error = "catalog request failed with status 500"
	m, _ = update(t, m, StateMsg{State: st})
	assert.Contains(t, m.View(), "status 500")

	st.Catalog.Error = ""
	st.Catalog.Query = "zzz"
	m, _ = update(t, m, StateMsg{State: st})
	assert.Contains(t, m.View(), `No titles match "zzz"`)

	m, _ = update(t, m, StateMsg{State: catalogState("Heat")})
	view := m.View()
	assert.Contains(t, view, "StreamBox")
	assert.Contains(t, view, "Heat")
	assert.Contains(t, view, "1995")
	assert.Contains(t, view, "Hi, Guest")
}

func TestFavouritesFilterNarrowsRows(t *testing.T) {
	m := newTestModel(t)

	st := state.Initial()
	st.Favourites.UserID = "alice"
	st.Favourites.Items = []domain.CatalogItem{
		{ID: 1, Title: "Heat"},
		{ID: 2, Title: "Ronin"},
		{ID: 3, Title: "The Heat"},
	}
	m, _ = update(t, m, StateMsg{State: st})

	m, _ = update(t, m, runes("v"))
	require.Equal(t, ModeFavourites, m.mode)
	assert.Len(t, m.rows(), 3)

	m, _ = update(t, m, runes("f"))
	require.Equal(t, ModeFilter, m.mode)
	for _, r := range "heat" {
		m, _ = update(t, m, runes(string(r)))
	}
	rows := m.rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Heat", rows[0].item.Title)
	assert.NotEmpty(t, rows[0].matched)

	// Escape clears the filter
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeFavourites, m.mode)
	assert.Len(t, m.rows(), 3)
}

func TestEnterOpensDetails(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, StateMsg{State: catalogState("Heat", "Ronin")})
	m, _ = update(t, m, runes("j"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ModeDetails, m.mode)
	require.NotNil(t, m.details)
	assert.Equal(t, "Ronin", m.details.Title)
	assert.NotNil(t, cmd)

	full := *m.details
	full.Description = "A mercenary heist."
	m, _ = update(t, m, DetailsLoadedMsg{Item: full})
	assert.Contains(t, m.View(), "A mercenary heist.")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeBrowse, m.mode)
	assert.Nil(t, m.details)
}

func TestFavouriteToggledStatus(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, FavouriteToggledMsg{Title: "Heat", Err: fmt.Errorf("add: %w", domain.ErrNoUserBound)})
	assert.True(t, m.statusIsErr)
	assert.Contains(t, m.status, "no user signed in")

	m, _ = update(t, m, FavouriteToggledMsg{Title: "Heat", On: true})
	assert.False(t, m.statusIsErr)
	assert.Equal(t, `Added "Heat" to favourites`, m.status)

	m, _ = update(t, m, ClearStatusMsg{})
	assert.Empty(t, m.status)
}

func TestThemeChangeRestyles(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, styles.LightPalette, m.styles.Palette)

	st := state.Initial()
	st.Theme.Theme = domain.ThemeDark
	m, _ = update(t, m, StateMsg{State: st})
	assert.Equal(t, styles.DarkPalette, m.styles.Palette)
}

func TestLoggedOutQuits(t *testing.T) {
	m := newTestModel(t)
	m, cmd := update(t, m, LoggedOutMsg{})
	assert.True(t, m.LoggedOut)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpScreenReturnsOnAnyKey(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, runes("?"))
	require.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard shortcuts")

	m, _ = update(t, m, runes("x"))
	assert.Equal(t, ModeBrowse, m.mode)
}

func TestProfileEditFlow(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, runes("e"))
	assert.Equal(t, ModeBrowse, m.mode)
	assert.Equal(t, "Sign in to edit your profile", m.status)

	_, err := m.app.Register(context.Background(), "ann", "pass1")
	require.NoError(t, err)
	m, _ = update(t, m, StateMsg{State: m.app.State.Snapshot()})

	m, _ = update(t, m, runes("p"))
	require.Equal(t, ModeProfile, m.mode)
	assert.Contains(t, m.View(), "ann")

	m, _ = update(t, m, runes("e"))
	require.Equal(t, ModeEditProfile, m.mode)
	assert.Equal(t, "ann", m.profileInputs[3].Value())

	// A one-letter first name is rejected before anything is saved
	m, _ = update(t, m, runes("A"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, m.formErr)
	assert.Equal(t, "FirstName", m.formErr.Field)
	assert.Contains(t, m.View(), "First name must be at least 2 characters")

	m, _ = update(t, m, runes("nn"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, runes("Lee"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, runes("ann@example.com"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 3, m.profileFocus)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	saved, ok := cmd().(ProfileSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.Err)

	m, _ = update(t, m, saved)
	assert.Equal(t, ModeProfile, m.mode)
	assert.Equal(t, "Profile updated", m.status)
	assert.Nil(t, m.formErr)

	m, _ = update(t, m, StateMsg{State: m.app.State.Snapshot()})
	assert.Contains(t, m.View(), "Hi, Ann Lee")
}

func TestProfileSaveFailureShowsStatus(t *testing.T) {
	m := newTestModel(t)
	m.mode = ModeEditProfile

	m, _ = update(t, m, ProfileSavedMsg{Err: &domain.ProfileSaveError{Err: errors.New("disk full")}})
	assert.Equal(t, ModeEditProfile, m.mode)
	assert.True(t, m.statusIsErr)
	assert.Equal(t, saveFailedMessage, m.status)
}
