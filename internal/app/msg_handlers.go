package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/ui"
)

// handleChatResponse stages a backend reply and starts its reveal. The reply
// belongs to the session it was sent from, whichever session is shown now.
func (m *Model) handleChatResponse(msg ChatResponseMsg) (tea.Model, tea.Cmd) {
	id := msg.Response.SessionID

	staged, ok := m.pipeline.Deliver(msg.Response)
	if !ok {
		m.chat.DropSession(id)
		m.setBusy(id, false)
		return m, nil
	}

	logger.WithSession(id).Debug("reply staged", "failed", staged.Failed, "bytes", len(staged.Content))
	return m, tea.Batch(
		m.chat.StartReveal(staged),
		m.notifyReply(id),
	)
}

// handleRevealComplete commits a fully revealed reply
func (m *Model) handleRevealComplete(msg ui.RevealCompleteMsg) (tea.Model, tea.Cmd) {
	m.setBusy(msg.SessionID, false)

	if _, ok := m.pipeline.RevealComplete(msg.SessionID); !ok {
		logger.WithSession(msg.SessionID).Warn("revealed reply was not committed", "stagedID", msg.StagedID)
		m.chat.DropSession(msg.SessionID)
	}
	m.refreshSessions()
	return m, nil
}

// handlePracticalResult shows a finished practical
func (m *Model) handlePracticalResult(msg PracticalResultMsg) (tea.Model, tea.Cmd) {
	m.practicals.Finish(msg.Result)
	m.practical.SetResult(msg.Result)
	return m, m.notifyPractical(msg.Result)
}
