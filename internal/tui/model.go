package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/streambox/internal/app"
	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/profile"
	"github.com/mmcdole/streambox/internal/search"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/tui/styles"
)

// Mode is the screen the user is interacting with
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeFavourites
	ModeFilter
	ModeDetails
	ModeProfile
	ModeEditProfile
	ModeHelp
)

const statusDuration = 3 * time.Second

// row is one rendered list entry
type row struct {
	item    domain.CatalogItem
	matched []int // Highlighted rune positions in the title
}

// Model is the root Bubble Tea model
type Model struct {
	app  *app.App
	keys KeyMap

	help    help.Model
	search  textinput.Model
	filter  textinput.Model
	spinner spinner.Model
	styles  styles.Styles

	snapshot    state.State
	sub         <-chan state.State
	unsubscribe func()

	mode      Mode
	prevMode  Mode
	cursor    int
	favCursor int
	details   *domain.CatalogItem

	profileInputs []textinput.Model
	profileFocus  int
	formErr       *profile.ValidationError

	status      string
	statusIsErr bool

	width  int
	height int

	// LoggedOut is set when the session ended from inside the UI
	LoggedOut bool
}

// NewModel creates the root model and subscribes it to state changes
func NewModel(a *app.App) Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search titles"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 100

	filterInput := textinput.New()
	filterInput.Placeholder = "Filter favourites"
	filterInput.Prompt = "f "
	filterInput.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	sub, unsubscribe := a.State.Subscribe()
	snapshot := a.State.Snapshot()

	m := Model{
		app:           a,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		search:        searchInput,
		filter:        filterInput,
		spinner:       sp,
		profileInputs: newProfileInputs(),
		snapshot:      snapshot,
		sub:           sub,
		unsubscribe:   unsubscribe,
	}
	m.applyTheme(snapshot.Theme.Theme)
	return m
}

// Init starts the state listener and the first catalog load
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listenStateCmd(m.sub),
		BrowseCmd(m.app, m.app.Config.DefaultCategory()),
		m.spinner.Tick,
	)
}

// Close ends the state subscription
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Model) applyTheme(t domain.Theme) {
	m.styles = styles.For(t)
	m.spinner.Style = m.styles.Spinner
	m.help.Styles.ShortKey = m.styles.HelpKey
	m.help.Styles.ShortDesc = m.styles.HelpDesc
	m.help.Styles.FullKey = m.styles.HelpKey
	m.help.Styles.FullDesc = m.styles.HelpDesc
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-4, 10)
		m.filter.Width = max(msg.Width-4, 10)
		for i := range m.profileInputs {
			m.profileInputs[i].Width = max(msg.Width-8, 10)
		}
		return m, nil

	case StateMsg:
		if msg.State.Theme.Theme != m.snapshot.Theme.Theme {
			m.applyTheme(msg.State.Theme.Theme)
		}
		m.snapshot = msg.State
		m.clampCursors()
		return m, listenStateCmd(m.sub)

	case StateClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DetailsLoadedMsg:
		if m.mode == ModeDetails && m.details != nil && m.details.ID == msg.Item.ID {
			item := msg.Item
			m.details = &item
		}
		return m, nil

	case FavouriteToggledMsg:
		switch {
		case errors.Is(msg.Err, domain.ErrNoUserBound):
			return m, m.setStatus("Favourite not saved: no user signed in", true)
		case msg.Err != nil:
			return m, m.setStatus(fmt.Sprintf("Favourite failed: %v", msg.Err), true)
		case msg.On:
			return m, m.setStatus(fmt.Sprintf("Added %q to favourites", msg.Title), false)
		default:
			return m, m.setStatus(fmt.Sprintf("Removed %q from favourites", msg.Title), false)
		}

	case ProfileSavedMsg:
		return m.handleProfileSaved(msg)

	case OpenedMsg:
		return m, m.setStatus(fmt.Sprintf("Opened %q in browser", msg.Title), false)

	case ErrMsg:
		m.app.Logger.Warn("ui command failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case LoggedOutMsg:
		m.LoggedOut = true
		return m, tea.Quit

	case ClearStatusMsg:
		m.status = ""
		m.statusIsErr = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusIsErr = isErr
	return ClearStatusCmd(statusDuration)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeFilter:
		return m.handleFilterKey(msg)
	case ModeHelp:
		m.mode = m.prevMode
		return m, nil
	case ModeDetails:
		return m.handleDetailsKey(msg)
	case ModeProfile:
		return m.handleProfileKey(msg)
	case ModeEditProfile:
		return m.handleEditKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Blur()
		m.mode = ModeBrowse
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = ModeBrowse
		m.cursor = 0
		a := m.app
		return m, func() tea.Msg {
			a.Loader.FlushSearch()
			return nil
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
		m.app.Search(m.search.Value())
	}
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.SetValue("")
		m.filter.Blur()
		m.mode = ModeFavourites
		m.favCursor = 0
		return m, nil
	case tea.KeyEnter:
		m.filter.Blur()
		m.mode = ModeFavourites
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.favCursor = 0
	return m, cmd
}

func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.PrevCategory):
		m.mode = m.prevMode
		m.details = nil
		return m, nil
	case key.Matches(msg, m.keys.ToggleFavourite):
		return m, ToggleFavouriteCmd(m.app, *m.details)
	case key.Matches(msg, m.keys.Open):
		return m, OpenCmd(m.app, *m.details)
	case key.Matches(msg, m.keys.Theme):
		return m, ToggleThemeCmd(m.app)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	cursor := m.activeCursor()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.setCursor(cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.setCursor(cursor + 1)
	case key.Matches(msg, m.keys.Home):
		m.setCursor(0)
	case key.Matches(msg, m.keys.End):
		m.setCursor(len(rows) - 1)

	case key.Matches(msg, m.keys.NextCategory) && m.mode == ModeBrowse:
		return m.switchCategory(1)
	case key.Matches(msg, m.keys.PrevCategory) && m.mode == ModeBrowse:
		return m.switchCategory(-1)

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Filter) && m.mode == ModeFavourites:
		m.mode = ModeFilter
		return m, m.filter.Focus()

	case key.Matches(msg, m.keys.Favourites):
		if m.mode == ModeFavourites {
			m.mode = ModeBrowse
		} else {
			m.mode = ModeFavourites
		}

	case key.Matches(msg, m.keys.Escape) && m.mode == ModeFavourites:
		m.mode = ModeBrowse

	case key.Matches(msg, m.keys.ToggleFavourite):
		if cursor < len(rows) {
			return m, ToggleFavouriteCmd(m.app, rows[cursor].item)
		}

	case key.Matches(msg, m.keys.Enter):
		if cursor < len(rows) {
			item := rows[cursor].item
			m.details = &item
			m.prevMode = m.mode
			m.mode = ModeDetails
			return m, LoadDetailsCmd(m.app, item)
		}

	case key.Matches(msg, m.keys.Open):
		if cursor < len(rows) {
			return m, OpenCmd(m.app, rows[cursor].item)
		}

	case key.Matches(msg, m.keys.Theme):
		return m, ToggleThemeCmd(m.app)

	case key.Matches(msg, m.keys.Refresh):
		return m, RefreshCmd(m.app)

	case key.Matches(msg, m.keys.Logout):
		return m, LogoutCmd(m.app)

	case key.Matches(msg, m.keys.Profile):
		m.prevMode = m.mode
		m.mode = ModeProfile

	case key.Matches(msg, m.keys.EditProfile):
		if !m.snapshot.Session.IsAuthenticated() {
			return m, m.setStatus("Sign in to edit your profile", true)
		}
		m.prevMode = m.mode
		return m, m.startEdit()

	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.mode
		m.mode = ModeHelp
	}
	return m, nil
}

func (m Model) switchCategory(step int) (tea.Model, tea.Cmd) {
	current := m.snapshot.Catalog.Category
	idx := 0
	for i, c := range domain.Categories {
		if c == current {
			idx = i
			break
		}
	}
	n := len(domain.Categories)
	next := domain.Categories[((idx+step)%n+n)%n]
	m.cursor = 0
	return m, BrowseCmd(m.app, next)
}

// rows returns the entries of the active list
func (m Model) rows() []row {
	if m.mode == ModeFavourites || m.mode == ModeFilter || (m.mode == ModeDetails && m.prevMode == ModeFavourites) {
		return m.favouriteRows()
	}
	items := m.snapshot.Catalog.Items
	out := make([]row, len(items))
	for i, it := range items {
		out[i] = row{item: it}
	}
	return out
}

func (m Model) favouriteRows() []row {
	items := m.snapshot.Favourites.Items
	query := m.filter.Value()
	if query == "" {
		out := make([]row, len(items))
		for i, it := range items {
			out[i] = row{item: it}
		}
		return out
	}

	results := search.Filter(query, items, nil)
	out := make([]row, len(results))
	for i, r := range results {
		out[i] = row{item: r.Item, matched: r.MatchedIndexes}
	}
	return out
}

func (m Model) activeCursor() int {
	if m.mode == ModeFavourites || m.mode == ModeFilter {
		return m.favCursor
	}
	return m.cursor
}

func (m *Model) setCursor(c int) {
	n := len(m.rows())
	c = min(c, n-1)
	c = max(c, 0)
	if m.mode == ModeFavourites || m.mode == ModeFilter {
		m.favCursor = c
	} else {
		m.cursor = c
	}
}

func (m *Model) clampCursors() {
	if n := len(m.snapshot.Catalog.Items); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(m.favouriteRows()); m.favCursor >= n {
		m.favCursor = max(n-1, 0)
	}
}
