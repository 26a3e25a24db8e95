package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/notification"
	"github.com/zhubert/ecehelper/internal/pipeline"
	"github.com/zhubert/ecehelper/internal/practical"
	"github.com/zhubert/ecehelper/internal/ui"
)

// =============================================================================
// Focus Management
// =============================================================================

func (m *Model) setFocus(f Focus) {
	if f == FocusChat && m.activeID() == "" {
		return
	}
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusChat)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusChat)
	} else {
		m.setFocus(FocusSidebar)
	}
}

func (m *Model) setScreen(s Screen) {
	m.screen = s
	if s == ScreenPractical {
		m.header.SetMode(s.String())
	} else {
		m.header.SetMode("")
	}
}

// =============================================================================
// Session Display
// =============================================================================

// refreshSessions pushes the manager's current state into the sidebar,
// header and chat pane.
func (m *Model) refreshSessions() {
	m.sidebar.SetSessions(m.sessions.Sessions())

	active, ok := m.sessions.Active()
	if !ok {
		m.chat.ClearSession()
		m.header.SetSessionTitle("")
		m.sidebar.SetActive("")
		return
	}
	m.sidebar.SetActive(active.ID)
	m.header.SetSessionTitle(active.Title)
	m.chat.SetSession(active.ID, active.Messages)
}

// selectSession makes id the active session and focuses the chat pane
func (m *Model) selectSession(id string) {
	if !m.sessions.SelectSession(id) {
		return
	}
	logger.WithSession(id).Debug("session selected")
	m.refreshSessions()
	m.sidebar.SelectSession(id)
	m.setScreen(ScreenChat)
	m.setFocus(FocusChat)
}

// setBusy marks a session busy in the sidebar and starts its spinner when
// it is the first busy one.
func (m *Model) setBusy(sessionID string, busy bool) tea.Cmd {
	wasBusy := m.sidebar.IsBusy()
	m.sidebar.SetBusy(sessionID, busy)
	if busy && !wasBusy {
		return ui.SidebarTick()
	}
	return nil
}

// updateSizes updates component sizes based on terminal dimensions
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ContentHeight)
	m.chat.SetSize(ctx.ChatWidth, ctx.ContentHeight)
	m.practical.SetSize(ctx.ChatWidth, ctx.ContentHeight)
}

// resizeSidebar changes the persisted sidebar width by delta pixels
func (m *Model) resizeSidebar(delta int) {
	w := m.sessions.SetSidebarWidth(m.sessions.SidebarWidth() + delta)
	ui.GetViewContext().SetSidebarPreference(w)
	if m.width > 0 && m.height > 0 {
		m.updateSizes()
	}
}

// =============================================================================
// Background Commands
// =============================================================================

// chatCmd runs the backend call of an accepted submission
func chatCmd(req *pipeline.Request) tea.Cmd {
	return func() tea.Msg {
		return ChatResponseMsg{Response: req.Run(context.Background())}
	}
}

// practicalCmd runs a started practical request
func (m *Model) practicalCmd(topic string) tea.Cmd {
	flow := m.practicals
	return func() tea.Msg {
		return PracticalResultMsg{Result: flow.Run(context.Background(), topic)}
	}
}

// shouldNotify reports whether an event for sessionID happened out of view
func (m *Model) shouldNotify(sessionID string) bool {
	if !m.config.GetNotificationsEnabled() {
		return false
	}
	return !m.windowFocused || m.screen != ScreenChat || sessionID != m.activeID()
}

func notifyCmd(send func() error) tea.Cmd {
	return func() tea.Msg {
		_ = send()
		return nil
	}
}

func (m *Model) notifyReply(sessionID string) tea.Cmd {
	if !m.shouldNotify(sessionID) {
		return nil
	}
	title := "a conversation"
	if s, ok := m.sessions.Get(sessionID); ok {
		title = s.Title
	}
	return notifyCmd(func() error { return notification.ReplyReady(title) })
}

func (m *Model) notifyPractical(r practical.Result) tea.Cmd {
	if !m.config.GetNotificationsEnabled() || (m.windowFocused && m.screen == ScreenPractical) {
		return nil
	}
	return notifyCmd(func() error { return notification.PracticalReady(r.Topic, r.IsSuccess()) })
}
