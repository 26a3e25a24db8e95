package modals

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

const optionNotifications = "notifications"

var errInvalidSpeed = errors.New("must be a positive whole number")

func parseSpeed(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 0, errInvalidSpeed
	}
	return n, nil
}

func validateRevealSpeed(v string) error {
	_, err := parseSpeed(v)
	return err
}

// SettingsState edits the persisted preferences: theme, backend URL, reveal
// speed and desktop notifications. The app validates and applies the values
// on Enter.
type SettingsState struct {
	OriginalTheme        string
	NotificationsEnabled bool

	theme   string
	url     string
	speed   string
	toggles []string

	form *huh.Form
}

// NewSettingsState builds the form. themes and themeDisplayNames are
// parallel slices.
func NewSettingsState(themes, themeDisplayNames []string, currentTheme string,
	backendURL string, revealSpeed int, notificationsEnabled bool) *SettingsState {

	s := &SettingsState{
		OriginalTheme:        currentTheme,
		NotificationsEnabled: notificationsEnabled,
		theme:                currentTheme,
		url:                  backendURL,
		speed:                strconv.Itoa(revealSpeed),
	}
	if notificationsEnabled {
		s.toggles = []string{optionNotifications}
	}

	var themeOpts []huh.Option[string]
	for i, key := range themes {
		themeOpts = append(themeOpts, huh.NewOption(themeDisplayNames[i], key))
	}
	toggleOpts := []huh.Option[string]{
		huh.NewOption("Desktop notifications", optionNotifications).Selected(notificationsEnabled),
	}

	s.form = newForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOpts...).
			Value(&s.theme),
		huh.NewInput().
			Title("Backend URL").
			Description("Base URL of the tutor backend").
			Placeholder("http://localhost:5000").
			CharLimit(ModalInputCharLimit).
			Value(&s.url),
		huh.NewInput().
			Title("Reveal speed").
			Description("Characters shown per animation frame").
			CharLimit(3).
			Validate(validateRevealSpeed).
			Value(&s.speed),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(toggleOpts...).
			Height(len(toggleOpts)).
			Value(&s.toggles),
	))
	return s
}

func (*SettingsState) modalState() {}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string { return "Tab: next field  Enter: save  Esc: cancel" }

func (s *SettingsState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.form.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = updateForm(s.form, msg)
	s.NotificationsEnabled = slices.Contains(s.toggles, optionNotifications)
	return s, cmd
}

func (s *SettingsState) GetSelectedTheme() string { return s.theme }

func (s *SettingsState) ThemeChanged() bool { return s.theme != s.OriginalTheme }

// GetBackendURL returns the URL with surrounding space removed.
func (s *SettingsState) GetBackendURL() string { return strings.TrimSpace(s.url) }

// GetRevealSpeed returns the typed speed; ok is false unless it is a
// positive integer.
func (s *SettingsState) GetRevealSpeed() (int, bool) {
	n, err := parseSpeed(s.speed)
	return n, err == nil
}
