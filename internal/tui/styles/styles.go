package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/streambox/internal/domain"
)

// Palette is the set of colours a theme renders with
type Palette struct {
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Dim        lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
}

// Colour palettes
var (
	DarkPalette = Palette{
		Accent:     lipgloss.Color("#E50914"),
		Background: lipgloss.Color("#141414"),
		Surface:    lipgloss.Color("#374151"),
		Text:       lipgloss.Color("#F9FAFB"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Dim:        lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#10B981"),
		Error:      lipgloss.Color("#EF4444"),
	}

	LightPalette = Palette{
		Accent:     lipgloss.Color("#B20710"),
		Background: lipgloss.Color("#FFFFFF"),
		Surface:    lipgloss.Color("#E5E7EB"),
		Text:       lipgloss.Color("#111827"),
		Muted:      lipgloss.Color("#4B5563"),
		Dim:        lipgloss.Color("#9CA3AF"),
		Success:    lipgloss.Color("#047857"),
		Error:      lipgloss.Color("#B91C1C"),
	}
)

// Styles holds every style the UI renders with, derived from one palette
type Styles struct {
	Palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Dim      lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	SelectedItem lipgloss.Style
	NormalItem   lipgloss.Style

	Match         lipgloss.Style
	MatchSelected lipgloss.Style

	Badge   lipgloss.Style
	Panel   lipgloss.Style
	Spinner lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// New builds the styles for a palette
func New(p Palette) Styles {
	return Styles{
		Palette: p,

		Title:    lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		Dim:      lipgloss.NewStyle().Foreground(p.Dim),
		Accent:   lipgloss.NewStyle().Foreground(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Error),
		Success:  lipgloss.NewStyle().Foreground(p.Success),

		Tab: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Bold(true).
			Padding(0, 1),

		SelectedItem: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),
		NormalItem: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		Match: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		MatchSelected: lipgloss.NewStyle().
			Foreground(p.Accent).
			Background(p.Surface).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Accent).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Dim).
			Padding(0, 1),
		Spinner: lipgloss.NewStyle().Foreground(p.Accent),

		HelpKey:  lipgloss.NewStyle().Foreground(p.Accent),
		HelpDesc: lipgloss.NewStyle().Foreground(p.Dim),
	}
}

// For returns the styles of a theme
func For(t domain.Theme) Styles {
	if t == domain.ThemeDark {
		return New(DarkPalette)
	}
	return New(LightPalette)
}

// FavouriteChar marks favourited rows
const FavouriteChar = "♥"

// Truncate shortens s to width runes with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// RenderRating renders a 0-10 rating as five stars
func RenderRating(rating float64) string {
	full := int(rating/2 + 0.5)
	full = min(max(full, 0), 5)
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

// Highlight renders s with the runes at indexes styled as matches
func Highlight(s string, indexes []int, base, match lipgloss.Style) string {
	if len(indexes) == 0 {
		return base.Render(s)
	}
	set := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		set[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(s) {
		if set[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// SpinnerFrames animate progress outside the Bubble Tea program
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
