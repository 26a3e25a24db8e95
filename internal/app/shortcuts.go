package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/ecehelper/internal/keys"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/practical"
	"github.com/zhubert/ecehelper/internal/ui"
	"github.com/zhubert/ecehelper/internal/ui/modals"
)

// Shortcut is a keyboard shortcut with its guards and handler. The registry
// drives both key handling and the help modal.
type Shortcut struct {
	Key             string
	DisplayKey      string // Shown in help; defaults to Key
	Description     string
	Category        string
	RequiresSession bool // a conversation must be highlighted in the sidebar
	RequiresSidebar bool // not while typing in the chat input
	Handler         func(m *Model) (tea.Model, tea.Cmd)
	Condition       func(m *Model) bool
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation    = "Navigation"
	CategoryConversations = "Conversations"
	CategoryChat          = "Chat"
	CategoryPractical     = "MATLAB Practical"
	CategoryGeneral       = "General"
)

var categoryOrder = []string{
	CategoryNavigation,
	CategoryConversations,
	CategoryChat,
	CategoryPractical,
	CategoryGeneral,
}

func onChatScreen(m *Model) bool      { return m.screen == ScreenChat }
func onPracticalScreen(m *Model) bool { return m.screen == ScreenPractical }

// ShortcutRegistry lists every executable shortcut
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		Description: "Switch between sidebar and chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
		Condition:   onChatScreen,
	},
	{
		Key:             "/",
		Description:     "Search conversations",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         shortcutSearch,
		Condition:       func(m *Model) bool { return onChatScreen(m) && !m.sidebar.IsSearchMode() },
	},
	{
		Key:             "[",
		Description:     "Narrow the sidebar",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         func(m *Model) (tea.Model, tea.Cmd) { m.resizeSidebar(-ui.SidebarResizeStep); return m, nil },
		Condition:       onChatScreen,
	},
	{
		Key:             "]",
		Description:     "Widen the sidebar",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         func(m *Model) (tea.Model, tea.Cmd) { m.resizeSidebar(ui.SidebarResizeStep); return m, nil },
		Condition:       onChatScreen,
	},

	// Conversations
	{
		Key:             "n",
		Description:     "New conversation",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		Handler:         shortcutNewSession,
		Condition:       onChatScreen,
	},
	{
		Key:             "r",
		Description:     "Rename conversation",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		RequiresSession: true,
		Handler:         shortcutRenameSession,
		Condition:       onChatScreen,
	},
	{
		Key:             "d",
		Description:     "Delete conversation",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		RequiresSession: true,
		Handler:         shortcutDeleteSession,
		Condition:       onChatScreen,
	},

	// Chat
	{
		Key:         keys.CtrlY,
		Description: "Copy the last reply",
		Category:    CategoryChat,
		Handler:     shortcutCopyReply,
		Condition:   func(m *Model) bool { return onChatScreen(m) && m.chat.LastAssistantMessage() != "" },
	},
	{
		Key:         keys.CtrlE,
		Description: "Show the whole reply now",
		Category:    CategoryChat,
		Handler:     shortcutSkipReveal,
		Condition:   func(m *Model) bool { return m.chat.IsRevealing(m.activeID()) },
	},
	{
		Key:         keys.CtrlO,
		Description: "Open the attached practical",
		Category:    CategoryChat,
		Handler:     shortcutOpenAttached,
		Condition:   func(m *Model) bool { return onChatScreen(m) && m.chat.LastPractical() != nil },
	},

	// Practical
	{
		Key:             "p",
		Description:     "Open the practical generator",
		Category:        CategoryPractical,
		RequiresSidebar: true,
		Handler:         shortcutPracticalView,
		Condition:       onChatScreen,
	},
	{
		Key:         "g",
		Description: "Generate a practical",
		Category:    CategoryPractical,
		Handler:     shortcutChooseTopic,
		Condition:   onPracticalScreen,
	},
	{
		Key:         "c",
		Description: "Copy the current tab",
		Category:    CategoryPractical,
		Handler:     shortcutCopyTab,
		Condition:   func(m *Model) bool { return onPracticalScreen(m) && m.practical.HasTabs() },
	},
	{
		Key:         "s",
		Description: "Save the LaTeX report",
		Category:    CategoryPractical,
		Handler:     shortcutSaveLatex,
		Condition:   func(m *Model) bool { return onPracticalScreen(m) && m.practical.HasTabs() },
	},

	// General
	{
		Key:         keys.CtrlT,
		Description: "Next theme",
		Category:    CategoryGeneral,
		Handler:     shortcutNextTheme,
	},
	{
		Key:             ",",
		Description:     "Settings",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutSettings,
	},
	{
		Key:             "q",
		Description:     "Quit",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// DisplayOnlyShortcuts appear in help but are handled elsewhere
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "up/down", Description: "Move in the list", Category: CategoryNavigation},
	{DisplayKey: "enter", Description: "Open conversation / send message", Category: CategoryNavigation},
	{DisplayKey: "esc", Description: "Back", Category: CategoryNavigation},
	{DisplayKey: "shift+enter", Description: "New line in message", Category: CategoryChat},
	{DisplayKey: "pgup/pgdown", Description: "Scroll history", Category: CategoryChat},
	{DisplayKey: "tab/shift+tab", Description: "Switch practical tab", Category: CategoryPractical},
	{DisplayKey: "?", Description: "This help", Category: CategoryGeneral},
}

// typing reports whether keys belong to the chat input
func (m *Model) typing() bool {
	return m.screen == ScreenChat && m.focus == FocusChat
}

// isShortcutApplicable checks a shortcut's guards against the current state
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.typing() {
		return false
	}
	if s.RequiresSession && m.sidebar.SelectedSession() == nil {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut runs the shortcut bound to key if its guards pass.
// It returns handled=false so the key can fall through to the focused panel.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	if m.sidebar.IsSearchMode() && m.screen == ScreenChat {
		return m, nil, false
	}

	if key == "?" {
		if m.typing() {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			logger.WithComponent("app").Debug("shortcut guard failed", "key", key)
			return m, nil, false
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections builds help sections from the shortcuts usable now
func (m *Model) getApplicableHelpSections() []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	add := func(s Shortcut) {
		display := s.DisplayKey
		if display == "" {
			display = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{Key: display, Desc: s.Description})
	}

	for _, s := range ShortcutRegistry {
		if m.isShortcutApplicable(s) {
			add(s)
		}
	}
	for _, s := range DisplayOnlyShortcuts {
		add(s)
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if sc := categories[cat]; len(sc) > 0 {
			sections = append(sections, modals.HelpSection{Title: cat, Shortcuts: sc})
		}
	}
	return sections
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutSearch(m *Model) (tea.Model, tea.Cmd) {
	m.setFocus(FocusSidebar)
	return m, m.sidebar.EnterSearchMode()
}

func shortcutNewSession(m *Model) (tea.Model, tea.Cmd) {
	id := m.sessions.CreateSession()
	if id == "" {
		return m, m.ShowFlash("Conversations are still loading")
	}
	if m.sidebar.IsSearchMode() {
		m.sidebar.ExitSearchMode()
	}
	m.selectSession(id)
	return m, nil
}

func shortcutRenameSession(m *Model) (tea.Model, tea.Cmd) {
	sel := m.sidebar.SelectedSession()
	m.modal.Show(modals.NewRenameSessionState(sel.ID, sel.Title))
	return m, nil
}

func shortcutDeleteSession(m *Model) (tea.Model, tea.Cmd) {
	sel := m.sidebar.SelectedSession()
	m.modal.Show(modals.NewConfirmDeleteState(sel.ID, sel.Title, len(sel.Messages), m.isBusy(sel.ID)))
	return m, nil
}

func shortcutCopyReply(m *Model) (tea.Model, tea.Cmd) {
	if err := m.copyText(m.chat.LastAssistantMessage()); err != nil {
		logger.WithComponent("app").Warn("copy failed", "error", err)
		return m, nil
	}
	return m, m.ShowFlash("Reply copied")
}

func shortcutSkipReveal(m *Model) (tea.Model, tea.Cmd) {
	return m, m.chat.SkipReveal(m.activeID())
}

func shortcutOpenAttached(m *Model) (tea.Model, tea.Cmd) {
	p := m.chat.LastPractical()
	if m.practical.Busy() {
		return m, m.ShowFlash("A practical is still generating")
	}
	m.practical.SetResult(*p)
	m.setScreen(ScreenPractical)
	return m, nil
}

func shortcutPracticalView(m *Model) (tea.Model, tea.Cmd) {
	m.setScreen(ScreenPractical)
	if !m.practical.Busy() && m.practical.Result() == nil {
		return shortcutChooseTopic(m)
	}
	return m, nil
}

func shortcutChooseTopic(m *Model) (tea.Model, tea.Cmd) {
	if topic, busy := m.practicals.InFlight(); busy {
		return m, m.ShowFlash("Still generating " + topic)
	}
	m.modal.Show(modals.NewPracticalTopicState(practical.SuggestedTopics, m.lastTopic))
	return m, nil
}

func shortcutCopyTab(m *Model) (tea.Model, tea.Cmd) {
	tab, ok := m.practical.ActiveTab()
	if !ok || tab.Disabled {
		return m, nil
	}
	if err := m.copyText(tab.CopyText()); err != nil {
		logger.WithComponent("app").Warn("copy failed", "error", err)
		return m, nil
	}
	return m, m.ShowFlash(tab.Title + " copied")
}

func shortcutSaveLatex(m *Model) (tea.Model, tea.Cmd) {
	r := m.practical.Result()
	path, err := practical.WriteLatex(m.exportDir, *r)
	if err != nil {
		logger.WithComponent("app").Error("saving report failed", "error", err)
		return m, m.ShowFlash("Could not save the report")
	}
	m.practical.SetStatus("Saved " + path)
	return m, nil
}

func shortcutNextTheme(m *Model) (tea.Model, tea.Cmd) {
	next := ui.NextTheme(ui.CurrentThemeName())
	m.applyTheme(string(next))
	return m, m.ShowFlash("Theme: " + ui.CurrentTheme().Name)
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	names := ui.ThemeNames()
	ids := make([]string, len(names))
	display := make([]string, len(names))
	for i, n := range names {
		ids[i] = string(n)
		display[i] = ui.GetTheme(n).Name
	}
	m.modal.Show(modals.NewSettingsState(
		ids, display, string(ui.CurrentThemeName()),
		m.config.GetBackendURL(),
		m.config.GetRevealCharsPerTick(),
		m.config.GetNotificationsEnabled(),
	))
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewHelpState(m.getApplicableHelpSections()))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

// handleHelpShortcutTrigger runs a shortcut picked in the help modal
func (m *Model) handleHelpShortcutTrigger(key string) (tea.Model, tea.Cmd) {
	key = strings.ToLower(key)
	if result, cmd, ok := m.ExecuteShortcut(key); ok {
		return result, cmd
	}
	return m, nil
}

// applyTheme switches and persists the theme
func (m *Model) applyTheme(name string) {
	ui.SetThemeByName(name)
	m.config.SetTheme(name)
	m.saveConfig()
	m.refreshSessions()
}

func (m *Model) saveConfig() {
	if err := m.config.Save(); err != nil {
		logger.WithComponent("app").Warn("failed to save config", "error", err)
	}
}
