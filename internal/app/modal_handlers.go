package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/ecehelper/internal/keys"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/ui"
	"github.com/zhubert/ecehelper/internal/ui/modals"
)

// handleModalKey routes a key to the handler of the open dialog. Enter and
// Esc belong to the handlers; other keys reach the dialog itself.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.RenameSessionState:
		return m.handleRenameSessionModal(key, msg, s)
	case *modals.ConfirmDeleteState:
		return m.handleConfirmDeleteModal(key, msg, s)
	case *modals.PracticalTopicState:
		return m.handlePracticalTopicModal(key, msg, s)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	return m.forwardToModal(msg)
}

func (m *Model) forwardToModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleRenameSessionModal(key string, msg tea.KeyPressMsg, state *modals.RenameSessionState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.sessions.RenameSession(state.SessionID, state.GetNewTitle())
		m.modal.Hide()
		m.refreshSessions()
		return m, nil
	}
	return m.forwardToModal(msg)
}

func (m *Model) handleConfirmDeleteModal(key string, msg tea.KeyPressMsg, state *modals.ConfirmDeleteState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		m.modal.Hide()
		if state.Confirmed() {
			m.deleteSession(state.SessionID)
		}
		return m, nil
	}
	return m.forwardToModal(msg)
}

// deleteSession drops any reply in progress, then removes the session
func (m *Model) deleteSession(id string) {
	m.pipeline.Cancel(id)
	m.chat.DropSession(id)
	m.setBusy(id, false)
	m.sessions.DeleteSession(id)
	logger.WithSession(id).Info("session deleted")

	m.refreshSessions()
	if active := m.activeID(); active != "" {
		m.sidebar.SelectSession(active)
	}
}

func (m *Model) handlePracticalTopicModal(key string, msg tea.KeyPressMsg, state *modals.PracticalTopicState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		topic := state.GetTopic()
		if topic == "" {
			m.modal.SetError("Please enter a topic")
			return m, nil
		}
		topic, ok := m.practicals.Start(topic)
		if !ok {
			m.modal.SetError("A practical is already being generated")
			return m, nil
		}
		m.modal.Hide()
		m.lastTopic = topic
		m.setScreen(ScreenPractical)
		return m, tea.Batch(m.practical.Start(topic), m.runPractical(topic))
	}
	return m.forwardToModal(msg)
}

func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		speed, ok := state.GetRevealSpeed()
		if !ok {
			m.modal.SetError("Reveal speed must be a positive whole number")
			return m, nil
		}
		url := state.GetBackendURL()
		if url == "" {
			m.modal.SetError("Backend URL is required")
			return m, nil
		}

		if state.ThemeChanged() {
			ui.SetThemeByName(state.GetSelectedTheme())
			m.config.SetTheme(state.GetSelectedTheme())
		}
		if url != m.config.GetBackendURL() {
			m.config.SetBackendURL(url)
			if m.onBackendURL != nil {
				m.onBackendURL(m.config.GetBackendURL())
			}
		}
		m.config.SetRevealCharsPerTick(speed)
		m.chat.SetRevealStep(speed)
		m.config.SetNotificationsEnabled(state.NotificationsEnabled)

		m.saveConfig()
		m.modal.Hide()
		m.refreshSessions()
		return m, m.ShowFlash("Settings saved")
	}
	return m.forwardToModal(msg)
}

func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	if state.IsFiltering() {
		return m.forwardToModal(msg)
	}

	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		cmd := state.Trigger()
		if cmd != nil {
			m.modal.Hide()
		}
		return m, cmd
	}
	return m.forwardToModal(msg)
}
