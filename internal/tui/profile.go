package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/mmcdole/streambox/internal/profile"
	"github.com/mmcdole/streambox/internal/tui/styles"
)

// profileField is one row of the profile edit form
type profileField struct {
	name        string // Matches profile.ValidationError.Field
	label       string
	placeholder string
}

var profileFields = []profileField{
	{"FirstName", "First Name", "Enter your first name"},
	{"LastName", "Last Name", "Enter your last name"},
	{"Email", "Email", "Enter your email"},
	{"Username", "Username", "Enter your username"},
}

const saveFailedMessage = "Failed to update profile. Please try again."

func newProfileInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(profileFields))
	for i, f := range profileFields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.Prompt = ""
		in.CharLimit = 100
		inputs[i] = in
	}
	return inputs
}

// startEdit fills the form from the current profile and focuses it
func (m *Model) startEdit() tea.Cmd {
	v := profile.FormValues(m.snapshot)
	values := []string{v.FirstName, v.LastName, v.Email, v.Username}
	for i := range m.profileInputs {
		m.profileInputs[i].SetValue(values[i])
		m.profileInputs[i].Blur()
	}
	m.formErr = nil
	m.mode = ModeEditProfile
	return m.focusField(0)
}

func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.profileInputs)
	i = ((i % n) + n) % n
	m.profileInputs[m.profileFocus].Blur()
	m.profileFocus = i
	return m.profileInputs[i].Focus()
}

func (m Model) formValues() domain.Profile {
	value := func(i int) string { return strings.TrimSpace(m.profileInputs[i].Value()) }
	return domain.Profile{
		FirstName: value(0),
		LastName:  value(1),
		Email:     value(2),
		Username:  value(3),
	}
}

// submitProfile validates locally, then hands the save to a command
func (m *Model) submitProfile() tea.Cmd {
	p := m.formValues()
	if err := profile.Validate(p); err != nil {
		return m.showFormError(err)
	}
	m.formErr = nil
	return UpdateProfileCmd(m.app, p)
}

func (m *Model) showFormError(err error) tea.Cmd {
	var verr *profile.ValidationError
	if !errors.As(err, &verr) {
		return m.setStatus(saveFailedMessage, true)
	}
	m.formErr = verr
	for i, f := range profileFields {
		if f.name == verr.Field {
			return m.focusField(i)
		}
	}
	return nil
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Profile):
		m.mode = m.prevMode
		return m, nil
	case key.Matches(msg, m.keys.EditProfile):
		if !m.snapshot.Session.IsAuthenticated() {
			return m, m.setStatus("Sign in to edit your profile", true)
		}
		return m, m.startEdit()
	case key.Matches(msg, m.keys.Theme):
		return m, ToggleThemeCmd(m.app)
	case key.Matches(msg, m.keys.Logout):
		return m, LogoutCmd(m.app)
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.profileInputs[m.profileFocus].Blur()
		m.formErr = nil
		m.mode = ModeProfile
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusField(m.profileFocus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusField(m.profileFocus - 1)
	case tea.KeyCtrlS:
		return m, m.submitProfile()
	case tea.KeyEnter:
		if m.profileFocus == len(m.profileInputs)-1 {
			return m, m.submitProfile()
		}
		return m, m.focusField(m.profileFocus + 1)
	}

	var cmd tea.Cmd
	m.profileInputs[m.profileFocus], cmd = m.profileInputs[m.profileFocus].Update(msg)
	return m, cmd
}

func (m Model) handleProfileSaved(msg ProfileSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.app.Logger.Warn("profile save failed", "error", msg.Err)
		return m, m.showFormError(msg.Err)
	}
	m.profileInputs[m.profileFocus].Blur()
	m.formErr = nil
	if m.mode == ModeEditProfile {
		m.mode = ModeProfile
	}
	return m, m.setStatus("Profile updated", false)
}

func (m Model) renderProfile() string {
	s := m.styles
	st := m.snapshot
	width := max(m.contentWidth()-4, 20)

	var b strings.Builder
	b.WriteString(s.Title.Render(profile.DisplayName(st)))
	b.WriteString("\n")

	switch {
	case st.Profile.Loading:
		b.WriteString(m.spinner.View() + " " + s.Dim.Render("Loading profile..."))
		b.WriteString("\n")
	case st.Profile.Error != "":
		b.WriteString(s.Error.Render(st.Profile.Error))
		b.WriteString("\n")
	}

	v := profile.FormValues(st)
	rows := [][2]string{
		{"Username", v.Username},
		{"Email", v.Email},
		{"Avatar", v.Avatar},
		{"Favourites", fmt.Sprintf("%s %d", styles.FavouriteChar, len(st.Favourites.Items))},
		{"Theme", string(st.Theme.Theme)},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(s.Subtitle.Render(fmt.Sprintf("%-11s", r[0])))
		b.WriteString(r[1])
	}

	b.WriteString("\n\n")
	if st.Session.IsAuthenticated() {
		b.WriteString(s.Dim.Render("e edit  ·  t theme  ·  L logout  ·  esc back"))
	} else {
		b.WriteString(s.Dim.Render("Not signed in  ·  esc back"))
	}
	return s.Panel.Width(width).Render(b.String())
}

func (m Model) renderProfileForm() string {
	s := m.styles
	width := max(m.contentWidth()-4, 20)

	var b strings.Builder
	b.WriteString(s.Title.Render("Edit Profile"))
	b.WriteString("\n")

	for i, f := range profileFields {
		b.WriteString("\n")
		label := s.Subtitle.Render(f.label)
		if i == m.profileFocus {
			label = s.Accent.Render(f.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.profileInputs[i].View())
		b.WriteString("\n")
		if m.formErr != nil && m.formErr.Field == f.name {
			b.WriteString(s.Error.Render(m.formErr.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.Dim.Render("tab next  ·  enter/ctrl+s save  ·  esc cancel"))
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
