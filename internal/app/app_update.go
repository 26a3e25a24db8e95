package app

import (
	tea "charm.land/bubbletea/v2"

	perrors "github.com/zhubert/ecehelper/internal/errors"
	"github.com/zhubert/ecehelper/internal/keys"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/ui"
	"github.com/zhubert/ecehelper/internal/ui/modals"
)

// Update routes every message to its handler
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.FocusMsg:
		m.windowFocused = true
		return m, nil

	case tea.BlurMsg:
		m.windowFocused = false
		return m, nil

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}

	case ChatResponseMsg:
		return m.handleChatResponse(msg)

	case ui.RevealCompleteMsg:
		return m.handleRevealComplete(msg)

	case PracticalResultMsg:
		return m.handlePracticalResult(msg)

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)

	case flashClearMsg:
		m.clearFlash(msg)
		return m, nil

	case ui.StopwatchTickMsg, ui.RevealTickMsg:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return m, cmd

	case ui.SidebarTickMsg:
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return m, cmd

	case ui.PracticalTickMsg:
		pv, cmd := m.practical.Update(msg)
		m.practical = pv
		return m, cmd
	}

	// Non-key messages such as cursor blinks also reach an open modal
	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	switch {
	case m.screen == ScreenPractical:
		pv, cmd := m.practical.Update(msg)
		m.practical = pv
		cmds = append(cmds, cmd)
	case m.focus == FocusSidebar:
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		cmds = append(cmds, cmd)
		// Mouse wheel over the sidebar still scrolls the conversation
		if _, ok := msg.(tea.MouseWheelMsg); ok {
			chat, cmd := m.chat.Update(msg)
			m.chat = chat
			cmds = append(cmds, cmd)
		}
	default:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keys the app owns. It returns a nil model when the
// key should fall through to the focused panel.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if key == keys.Escape {
		if result, cmd, handled := m.handleEscapeKey(); handled {
			return result, cmd
		}
	}

	if key == keys.Enter && m.screen == ScreenChat {
		if result, cmd, handled := m.handleEnterKey(); handled {
			return result, cmd
		}
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	return nil, nil
}

// handleEscapeKey leaves search, the practical screen, or the chat input
func (m *Model) handleEscapeKey() (tea.Model, tea.Cmd, bool) {
	switch {
	case m.screen == ScreenChat && m.sidebar.IsSearchMode():
		m.sidebar.ExitSearchMode()
		return m, nil, true
	case m.screen == ScreenPractical:
		m.setScreen(ScreenChat)
		return m, nil, true
	case m.focus == FocusChat:
		m.setFocus(FocusSidebar)
		return m, nil, true
	}
	return m, nil, false
}

// handleEnterKey opens the highlighted conversation or sends the message
func (m *Model) handleEnterKey() (tea.Model, tea.Cmd, bool) {
	if m.focus == FocusSidebar {
		if m.sidebar.IsSearchMode() {
			return m, nil, false
		}
		if sel := m.sidebar.SelectedSession(); sel != nil {
			m.selectSession(sel.ID)
		}
		return m, nil, true
	}
	model, cmd := m.sendMessage()
	return model, cmd, true
}

// sendMessage submits the chat input for the active session
func (m *Model) sendMessage() (tea.Model, tea.Cmd) {
	id := m.activeID()
	if !m.CanSendMessage() {
		return m, nil
	}

	req, err := m.pipeline.Submit(id, m.chat.GetInput())
	if err != nil {
		switch {
		case perrors.Is(err, perrors.KindInvalid):
			// blank input
		case perrors.Is(err, perrors.KindBusy):
			return m, m.ShowFlash("Wait for the current reply")
		default:
			logger.WithSession(id).Error("submit failed", "error", err)
		}
		return m, nil
	}

	m.chat.ClearInput()
	m.refreshSessions()

	return m, tea.Batch(
		m.chat.SetSending(id, true),
		m.setBusy(id, true),
		m.runChat(req),
	)
}
