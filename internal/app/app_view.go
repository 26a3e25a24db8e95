package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/ecehelper/internal/ui"
)

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current frame as a string
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	m.updateFooterContext()

	main := m.chat.View()
	if m.screen == ScreenPractical {
		main = m.practical.View()
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), panels, m.footer.View())
}

// updateFooterContext updates the footer with the current context
func (m *Model) updateFooterContext() {
	id := m.activeID()
	m.footer.SetContext(ui.FooterContext{
		SidebarFocused: m.focus == FocusSidebar,
		PracticalView:  m.screen == ScreenPractical,
		Busy:           id != "" && (m.isBusy(id) || m.chat.InputLocked()),
		PracticalBusy:  m.practical.Busy(),
		HasResult:      m.practical.HasTabs(),
	})
}
