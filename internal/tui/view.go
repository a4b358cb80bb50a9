package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/profile"
	"github.com/mmcdole/streambox/internal/state"
	"github.com/mmcdole/streambox/internal/tui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// Lines used by header, tabs, input, status and help
	chromeHeight = 7
)

var categoryLabels = map[domain.Category]string{
	domain.CategoryAll:      "All",
	domain.CategoryMovies:   "Movies",
	domain.CategoryShows:    "Shows",
	domain.CategoryPodcasts: "Podcasts",
	domain.CategorySongs:    "Songs",
}

// View renders the UI
func (m Model) View() string {
	if m.mode == ModeHelp {
		return m.renderHelpScreen()
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	switch m.mode {
	case ModeDetails:
		sections = append(sections, m.renderDetails())
	case ModeProfile:
		sections = append(sections, m.renderProfile())
	case ModeEditProfile:
		sections = append(sections, m.renderProfileForm())
	case ModeFavourites, ModeFilter:
		sections = append(sections, m.renderFavouritesTitle())
		if m.mode == ModeFilter || m.filter.Value() != "" {
			sections = append(sections, m.filter.View())
		}
		sections = append(sections, m.renderFavourites())
	default:
		sections = append(sections, m.renderTabs())
		if m.mode == ModeSearch || m.search.Value() != "" {
			sections = append(sections, m.search.View())
		}
		sections = append(sections, m.renderCatalog())
	}

	sections = append(sections, m.renderStatus(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultWidth
}

func (m Model) listHeight() int {
	h := m.height
	if h <= 0 {
		h = defaultHeight
	}
	return max(h-chromeHeight, 3)
}

func (m Model) renderHeader() string {
	s := m.styles
	left := s.Title.Render("StreamBox")
	greeting := s.Subtitle.Render("Hi, " + profile.DisplayName(m.snapshot))
	badge := s.Badge.Render(string(m.snapshot.Theme.Theme))

	gap := m.contentWidth() - lipgloss.Width(left) - lipgloss.Width(greeting) - lipgloss.Width(badge) - 2
	gap = max(gap, 1)
	return left + strings.Repeat(" ", gap) + greeting + " " + badge
}

func (m Model) renderTabs() string {
	s := m.styles
	current := m.snapshot.Catalog.Category
	tabs := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		label := categoryLabels[c]
		if c == current {
			tabs = append(tabs, s.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, s.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderCatalog() string {
	s := m.styles
	cat := m.snapshot.Catalog

	switch cat.Status() {
	case state.CatalogIdle:
		return s.Dim.Render("Pick a category to start browsing")
	case state.CatalogLoading:
		return m.spinner.View() + " " + s.Dim.Render("Loading...")
	case state.CatalogError:
		return s.Error.Render(cat.Error) + "\n" + s.Dim.Render("Press r to retry")
	case state.CatalogEmpty:
		if cat.Query != "" {
			return s.Dim.Render(fmt.Sprintf("No titles match %q", cat.Query))
		}
		return s.Dim.Render("Nothing to show in this category")
	}

	return m.renderRows(m.rows(), m.cursor)
}

func (m Model) renderFavouritesTitle() string {
	n := len(m.snapshot.Favourites.Items)
	return m.styles.Accent.Render(styles.FavouriteChar+" Favourites") + " " + m.styles.Dim.Render(fmt.Sprintf("(%d)", n))
}

func (m Model) renderFavourites() string {
	s := m.styles
	fav := m.snapshot.Favourites

	switch {
	case fav.Loading:
		return m.spinner.View() + " " + s.Dim.Render("Loading favourites...")
	case fav.UserID == "":
		return s.Dim.Render("Sign in to keep favourites")
	case len(fav.Items) == 0:
		return s.Dim.Render("No favourites yet. Press space on a title to add it.")
	}

	rows := m.rows()
	if len(rows) == 0 {
		return s.Dim.Render(fmt.Sprintf("No favourites match %q", m.filter.Value()))
	}
	return m.renderRows(rows, m.favCursor)
}

// renderRows draws the visible window of rows around cursor
func (m Model) renderRows(rows []row, cursor int) string {
	height := m.listHeight()
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(rows[i], i == cursor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r row, selected bool) string {
	s := m.styles
	item := r.item

	base, match := s.NormalItem.UnsetPadding(), s.Match
	if selected {
		base, match = s.SelectedItem.UnsetPadding(), s.MatchSelected
	}

	marker := " "
	if m.snapshot.Favourites.Contains(item.ID) {
		marker = styles.FavouriteChar
	}

	year := "    "
	if y := item.Year(); y > 0 {
		year = fmt.Sprintf("%d", y)
	}
	meta := fmt.Sprintf("  %s  %s  %-5s", year, styles.RenderRating(item.Rating), item.MediaType)

	titleWidth := max(m.contentWidth()-lipgloss.Width(meta)-6, 10)
	title := styles.Truncate(item.Title, titleWidth)
	pad := strings.Repeat(" ", max(titleWidth-lipgloss.Width(title), 0))

	line := s.Accent.Render(marker) + " " +
		styles.Highlight(title, r.matched, base, match) +
		base.Render(pad+meta)

	if selected {
		return s.Accent.Render("> ") + line
	}
	return "  " + line
}

func (m Model) renderDetails() string {
	s := m.styles
	item := m.details
	if item == nil {
		return ""
	}
	width := max(m.contentWidth()-4, 20)

	var b strings.Builder
	title := item.Title
	if m.snapshot.Favourites.Contains(item.ID) {
		title = styles.FavouriteChar + " " + title
	}
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n")

	var meta []string
	if y := item.Year(); y > 0 {
		meta = append(meta, fmt.Sprintf("%d", y))
	}
	meta = append(meta, string(item.MediaType))
	meta = append(meta, fmt.Sprintf("%s %.1f", styles.RenderRating(item.Rating), item.Rating))
	b.WriteString(s.Subtitle.Render(strings.Join(meta, "  ·  ")))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(width).Render(item.Description))
	b.WriteString("\n")

	if item.Thumbnail != "" {
		b.WriteString("\n")
		b.WriteString(s.Dim.Render("Poster: " + item.Thumbnail))
	}
	for _, img := range item.Images {
		b.WriteString("\n")
		b.WriteString(s.Dim.Render("Image:  " + img))
	}

	return s.Panel.Width(width).Render(b.String())
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusIsErr {
		return m.styles.Error.Render(m.status)
	}
	return m.styles.Success.Render(m.status)
}

func (m Model) renderHelpScreen() string {
	h := m.help
	h.ShowAll = true
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Keyboard shortcuts"),
		"",
		h.View(m.keys),
		"",
		m.styles.Dim.Render("Press any key to return"),
	)
}
