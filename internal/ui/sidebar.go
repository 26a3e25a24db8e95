package ui

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/ecehelper/internal/keys"
	"github.com/zhubert/ecehelper/internal/session"
)

// sidebarSpinnerFrames uses the same shimmering spinner as the chat panel
var sidebarSpinnerFrames = []string{"·", "✺", "✹", "✸", "✷", "✶", "✵", "✴", "✳", "✲", "✱", "✧", "✦", "·"}

// SidebarSearchCharLimit bounds the search query
const SidebarSearchCharLimit = 64

// SidebarTickMsg is sent to advance the spinner animation
type SidebarTickMsg time.Time

// SidebarTick returns a command that sends a tick message after a delay
func SidebarTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return SidebarTickMsg(t)
	})
}

// Sidebar represents the left panel with the session list, newest first
type Sidebar struct {
	sessions     []session.Session
	filtered     []session.Session
	selectedIdx  int
	activeID     string
	width        int
	height       int
	focused      bool
	scrollOffset int
	busy         map[string]bool // sessions with a request in flight or a reply revealing
	spinnerFrame int
	lastHash     uint64

	searchMode  bool
	searchInput textinput.Model

	now func() time.Time
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = SidebarSearchCharLimit

	return &Sidebar{
		busy:        make(map[string]bool),
		searchInput: ti,
		now:         time.Now,
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

func hashSessions(sessions []session.Session) uint64 {
	h := fnv.New64a()
	for _, sess := range sessions {
		h.Write([]byte(sess.ID))
		h.Write([]byte(sess.Title))
		fmt.Fprintf(h, "%d|%d", len(sess.Messages), sess.UpdatedAt.UnixNano())
	}
	return h.Sum64()
}

// SetSessions replaces the session list. The selection follows the
// previously selected session when it still exists.
func (s *Sidebar) SetSessions(sessions []session.Session) {
	hash := hashSessions(sessions)
	if hash == s.lastHash && len(sessions) == len(s.sessions) {
		return
	}
	s.lastHash = hash

	var selectedID string
	if sel := s.SelectedSession(); sel != nil {
		selectedID = sel.ID
	}

	s.sessions = sessions
	if s.searchMode || s.filtered != nil {
		s.applyFilter(s.searchInput.Value())
	}

	s.selectedIdx = 0
	if selectedID != "" {
		s.SelectSession(selectedID)
	}
}

// SetActive marks the session shown in the chat pane
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
}

// SelectSession moves the highlight to the session with the given id
func (s *Sidebar) SelectSession(id string) {
	for i, sess := range s.displaySessions() {
		if sess.ID == id {
			s.selectedIdx = i
			return
		}
	}
}

// SelectedSession returns the highlighted session, or nil
func (s *Sidebar) SelectedSession() *session.Session {
	list := s.displaySessions()
	if s.selectedIdx < 0 || s.selectedIdx >= len(list) {
		return nil
	}
	sess := list[s.selectedIdx]
	return &sess
}

// SetBusy marks a session as sending or revealing
func (s *Sidebar) SetBusy(sessionID string, busy bool) {
	if busy {
		s.busy[sessionID] = true
	} else {
		delete(s.busy, sessionID)
	}
}

// IsBusy reports whether any session is busy
func (s *Sidebar) IsBusy() bool {
	return len(s.busy) > 0
}

// IsSessionBusy reports whether the given session is busy
func (s *Sidebar) IsSessionBusy(sessionID string) bool {
	return s.busy[sessionID]
}

// EnterSearchMode activates search mode
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.applyFilter("")
	return s.searchInput.Focus()
}

// ExitSearchMode deactivates search mode and clears the filter
func (s *Sidebar) ExitSearchMode() {
	var selectedID string
	if sel := s.SelectedSession(); sel != nil {
		selectedID = sel.ID
	}
	s.searchMode = false
	s.searchInput.Blur()
	s.searchInput.SetValue("")
	s.filtered = nil
	s.selectedIdx = 0
	if selectedID != "" {
		s.SelectSession(selectedID)
	}
}

// IsSearchMode returns whether search mode is active
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// applyFilter matches the query against titles and message text
func (s *Sidebar) applyFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		s.filtered = nil
		return
	}

	s.filtered = []session.Session{}
	for _, sess := range s.sessions {
		if strings.Contains(strings.ToLower(sess.Title), query) {
			s.filtered = append(s.filtered, sess)
			continue
		}
		for _, m := range sess.Messages {
			if strings.Contains(strings.ToLower(m.Content), query) {
				s.filtered = append(s.filtered, sess)
				break
			}
		}
	}

	if s.selectedIdx >= len(s.filtered) {
		s.selectedIdx = len(s.filtered) - 1
	}
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
	s.scrollOffset = 0
}

func (s *Sidebar) displaySessions() []session.Session {
	if s.filtered != nil {
		return s.filtered
	}
	return s.sessions
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	switch msg := msg.(type) {
	case SidebarTickMsg:
		if !s.IsBusy() {
			return s, nil
		}
		s.spinnerFrame = (s.spinnerFrame + 1) % len(sidebarSpinnerFrames)
		return s, SidebarTick()

	case tea.KeyPressMsg:
		if !s.focused {
			return s, nil
		}

		if s.searchMode {
			switch msg.String() {
			case keys.Escape:
				s.ExitSearchMode()
				return s, nil
			case keys.Enter:
				// Keep the filter, stop typing
				s.searchMode = false
				s.searchInput.Blur()
				return s, nil
			case keys.Up, keys.CtrlP:
				s.move(-1)
				return s, nil
			case keys.Down, keys.CtrlN:
				s.move(1)
				return s, nil
			default:
				var cmd tea.Cmd
				s.searchInput, cmd = s.searchInput.Update(msg)
				s.applyFilter(s.searchInput.Value())
				return s, cmd
			}
		}

		switch msg.String() {
		case keys.Up, "k":
			s.move(-1)
		case keys.Down, "j":
			s.move(1)
		case keys.Home, "g":
			s.selectedIdx = 0
		case keys.End, "G":
			if n := len(s.displaySessions()); n > 0 {
				s.selectedIdx = n - 1
			}
		}
	}

	return s, nil
}

func (s *Sidebar) move(delta int) {
	next := s.selectedIdx + delta
	if next < 0 || next >= len(s.displaySessions()) {
		return
	}
	s.selectedIdx = next
}

// relativeTime renders how long ago t was, coarsely
func relativeTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("Jan 2")
}

func (s *Sidebar) renderItem(sess session.Session, selected bool, innerWidth int) string {
	marker := "  "
	switch {
	case s.busy[sess.ID]:
		marker = SidebarBusyStyle.Render(sidebarSpinnerFrames[s.spinnerFrame]) + " "
	case sess.ID == s.activeID:
		marker = "● "
	}
	if selected {
		marker = "> "
	}

	textWidth := innerWidth - 4 // padding + marker
	if textWidth < 1 {
		textWidth = 1
	}
	title := ansi.Truncate(sess.Title, textWidth, "…")

	count := len(sess.Messages)
	noun := "messages"
	if count == 1 {
		noun = "message"
	}
	meta := ansi.Truncate(fmt.Sprintf("%d %s · %s", count, noun, relativeTime(s.now(), sess.UpdatedAt)), textWidth, "…")

	style := SidebarItemStyle.Width(innerWidth)
	if selected {
		style = SidebarSelectedStyle.Width(innerWidth)
	}
	return style.Render(marker+title) + "\n" + SidebarItemStyle.Width(innerWidth).Render("  "+SidebarMetaStyle.Render(meta))
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)

	var header string
	if s.searchMode || s.filtered != nil {
		s.searchInput.SetWidth(innerWidth - 3)
		header = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render("/") + " " + s.searchInput.View()
		innerHeight--
	}

	list := s.displaySessions()
	var content string

	if len(list) == 0 {
		msg := "No conversations."
		if s.filtered != nil {
			msg = "No matches."
		}
		content = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true).Render(msg)
	} else {
		var lines []string
		selectedStart, selectedEnd := 0, 0
		for i, sess := range list {
			rendered := s.renderItem(sess, i == s.selectedIdx, innerWidth)
			if i == s.selectedIdx {
				selectedStart = len(lines)
			}
			lines = append(lines, strings.Split(rendered, "\n")...)
			if i == s.selectedIdx {
				selectedEnd = len(lines) - 1
			}
		}

		// Keep the whole selected item on screen
		if selectedStart < s.scrollOffset {
			s.scrollOffset = selectedStart
		} else if selectedEnd >= s.scrollOffset+innerHeight {
			s.scrollOffset = selectedEnd - innerHeight + 1
		}
		maxScroll := len(lines) - innerHeight
		if maxScroll < 0 {
			maxScroll = 0
		}
		if s.scrollOffset > maxScroll {
			s.scrollOffset = maxScroll
		}
		if s.scrollOffset < 0 {
			s.scrollOffset = 0
		}

		end := s.scrollOffset + innerHeight
		if end > len(lines) {
			end = len(lines)
		}
		content = strings.Join(lines[s.scrollOffset:end], "\n")
	}

	if header != "" {
		content = header + "\n" + content
	}

	return style.
		Width(s.width).
		Height(s.height).
		Render(content)
}
