// Package app wires the session manager, the message pipeline and the
// practical flow into the Bubble Tea program.
package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/ecehelper/internal/clipboard"
	"github.com/zhubert/ecehelper/internal/config"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/pipeline"
	"github.com/zhubert/ecehelper/internal/practical"
	"github.com/zhubert/ecehelper/internal/session"
	"github.com/zhubert/ecehelper/internal/ui"
)

// loadTimeout bounds the initial read of the session store
const loadTimeout = 10 * time.Second

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// Screen is what the main area shows
type Screen int

const (
	ScreenChat Screen = iota
	ScreenPractical
)

func (s Screen) String() string {
	if s == ScreenPractical {
		return "practical"
	}
	return "chat"
}

// Backend is the tutor server. backend.Client implements it.
type Backend interface {
	pipeline.Chatter
	practical.Generator
}

// ChatResponseMsg carries a finished backend call back to the event loop
type ChatResponseMsg struct {
	Response pipeline.Response
}

// PracticalResultMsg carries a finished practical request
type PracticalResultMsg struct {
	Result practical.Result
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	version string

	header    *ui.Header
	footer    *ui.Footer
	sidebar   *ui.Sidebar
	chat      *ui.Chat
	practical *ui.PracticalView
	modal     *ui.Modal

	width         int
	height        int
	focus         Focus
	screen        Screen
	windowFocused bool

	sessions   *session.Manager
	pipeline   *pipeline.Pipeline
	practicals *practical.Flow

	// Overridable side effects
	copyText     func(string) error
	runChat      func(*pipeline.Request) tea.Cmd
	runPractical func(topic string) tea.Cmd
	onBackendURL func(string)
	exportDir    string
	lastTopic    string
}

// Option configures a Model
type Option func(*Model)

// WithBackendURLHook is called when the user changes the backend URL in
// settings.
func WithBackendURLHook(fn func(string)) Option {
	return func(m *Model) { m.onBackendURL = fn }
}

// WithExportDir sets where LaTeX reports are saved. "" is the working directory.
func WithExportDir(dir string) Option {
	return func(m *Model) { m.exportDir = dir }
}

// New creates the app model. repo holds sessions, backend answers chat and
// practical requests. The session store is loaded before New returns.
func New(cfg *config.Config, repo session.Repository, backend Backend, version string, opts ...Option) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	mgr := session.NewManager(repo)
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	mgr.Initialize(ctx)
	cancel()

	m := &Model{
		config:        cfg,
		version:       version,
		header:        ui.NewHeader(),
		footer:        ui.NewFooter(),
		sidebar:       ui.NewSidebar(),
		chat:          ui.NewChat(),
		practical:     ui.NewPracticalView(),
		modal:         ui.NewModal(),
		focus:         FocusSidebar,
		screen:        ScreenChat,
		windowFocused: true,
		sessions:      mgr,
		pipeline:      pipeline.New(mgr, backend),
		practicals:    practical.NewFlow(backend),
		copyText:      clipboard.WriteText,
	}
	m.runChat = chatCmd
	m.runPractical = m.practicalCmd
	for _, opt := range opts {
		opt(m)
	}

	m.chat.SetRevealStep(cfg.GetRevealCharsPerTick())
	ui.GetViewContext().SetSidebarPreference(mgr.SidebarWidth())

	m.refreshSessions()
	if active, ok := mgr.Active(); ok {
		m.sidebar.SelectSession(active.ID)
	}
	m.sidebar.SetFocused(true)

	logger.WithComponent("app").Info("app started", "version", version, "sessions", len(mgr.Sessions()))
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Sessions exposes the session manager
func (m *Model) Sessions() *session.Manager {
	return m.sessions
}

// Pipeline exposes the message pipeline
func (m *Model) Pipeline() *pipeline.Pipeline {
	return m.pipeline
}

// Focus returns the focused panel
func (m *Model) Focus() Focus {
	return m.focus
}

// Screen returns what the main area shows
func (m *Model) Screen() Screen {
	return m.screen
}

// activeID returns the session shown in the chat pane
func (m *Model) activeID() string {
	return m.sessions.ActiveID()
}

// isBusy reports whether a session is sending or has a reply on screen
// that is not committed yet.
func (m *Model) isBusy(sessionID string) bool {
	return !m.pipeline.CanSubmit(sessionID) || m.chat.IsRevealing(sessionID)
}

// CanSendMessage reports whether the active session accepts a new message
func (m *Model) CanSendMessage() bool {
	id := m.activeID()
	return id != "" && !m.isBusy(id) && !m.chat.InputLocked()
}
