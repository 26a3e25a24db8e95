package ui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/ecehelper/internal/session"
)

var sidebarNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testSessions() []session.Session {
	return []session.Session{
		{ID: "s3", Title: "Explain FFT", UpdatedAt: sidebarNow.Add(-2 * time.Minute), Messages: []session.Message{
			{ID: "user-1", Role: session.RoleUser, Content: "Explain FFT"},
			{ID: "assistant-1", Role: session.RoleAssistant, Content: "The fast Fourier transform..."},
		}},
		{ID: "s2", Title: "Bode plots", UpdatedAt: sidebarNow.Add(-3 * time.Hour), Messages: []session.Message{
			{ID: "user-2", Role: session.RoleUser, Content: "How do I draw a Bode plot in MATLAB?"},
		}},
		{ID: "s1", Title: session.DefaultTitle, UpdatedAt: sidebarNow.Add(-72 * time.Hour)},
	}
}

func newTestSidebar() *Sidebar {
	s := NewSidebar()
	s.now = func() time.Time { return sidebarNow }
	s.SetSize(30, 20)
	s.SetFocused(true)
	s.SetSessions(testSessions())
	return s
}

func keyPress(k string) tea.KeyPressMsg {
	switch k {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

func TestSidebar_Navigation(t *testing.T) {
	s := newTestSidebar()

	if got := s.SelectedSession(); got == nil || got.ID != "s3" {
		t.Fatalf("initial selection = %v, want s3", got)
	}

	s.Update(keyPress("down"))
	s.Update(keyPress("j"))
	if got := s.SelectedSession().ID; got != "s1" {
		t.Errorf("after two downs = %s, want s1", got)
	}

	// Stops at the end
	s.Update(keyPress("down"))
	if got := s.SelectedSession().ID; got != "s1" {
		t.Errorf("past the end = %s, want s1", got)
	}

	s.Update(keyPress("k"))
	if got := s.SelectedSession().ID; got != "s2" {
		t.Errorf("after up = %s, want s2", got)
	}
}

func TestSidebar_IgnoresKeysWhenUnfocused(t *testing.T) {
	s := newTestSidebar()
	s.SetFocused(false)
	s.Update(keyPress("down"))

	if got := s.SelectedSession().ID; got != "s3" {
		t.Errorf("selection moved while unfocused: %s", got)
	}
}

func TestSidebar_SetSessionsKeepsSelection(t *testing.T) {
	s := newTestSidebar()
	s.SelectSession("s2")

	// A new session is prepended
	sessions := append([]session.Session{{ID: "s4", Title: session.DefaultTitle, UpdatedAt: sidebarNow}}, testSessions()...)
	s.SetSessions(sessions)

	if got := s.SelectedSession().ID; got != "s2" {
		t.Errorf("selection = %s, want s2 to survive the prepend", got)
	}

	// s2 deleted: selection falls back to the first item
	s.SetSessions([]session.Session{sessions[0], sessions[1], sessions[3]})
	if got := s.SelectedSession().ID; got != "s4" {
		t.Errorf("selection = %s, want s4 after deleting the selected session", got)
	}
}

func TestSidebar_EmptyList(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 10)

	if s.SelectedSession() != nil {
		t.Error("expected no selection")
	}
	if !strings.Contains(ansi.Strip(s.View()), "No conversations.") {
		t.Error("expected empty message")
	}
}

func TestSidebar_Search(t *testing.T) {
	s := newTestSidebar()
	s.EnterSearchMode()

	for _, r := range "bode" {
		s.Update(keyPress(string(r)))
	}
	if got := s.SelectedSession(); got == nil || got.ID != "s2" {
		t.Fatalf("filtered selection = %v, want s2", got)
	}

	// Searching message content
	s.ExitSearchMode()
	s.EnterSearchMode()
	for _, r := range "fourier" {
		s.Update(keyPress(string(r)))
	}
	if got := s.SelectedSession(); got == nil || got.ID != "s3" {
		t.Fatalf("content match = %v, want s3", got)
	}

	s.Update(keyPress("esc"))
	if s.IsSearchMode() {
		t.Error("esc should leave search mode")
	}
	if len(s.displaySessions()) != 3 {
		t.Errorf("filter should be cleared, got %d sessions", len(s.displaySessions()))
	}
	if got := s.SelectedSession().ID; got != "s3" {
		t.Errorf("selection after exit = %s, want s3", got)
	}
}

func TestSidebar_SearchNoMatches(t *testing.T) {
	s := newTestSidebar()
	s.EnterSearchMode()
	for _, r := range "zzz" {
		s.Update(keyPress(string(r)))
	}
	if s.SelectedSession() != nil {
		t.Error("expected no selection with no matches")
	}
	if !strings.Contains(ansi.Strip(s.View()), "No matches.") {
		t.Error("expected no-matches message")
	}
}

func TestSidebar_BusySpinner(t *testing.T) {
	s := newTestSidebar()

	if _, cmd := s.Update(SidebarTickMsg(sidebarNow)); cmd != nil {
		t.Error("idle sidebar should not keep ticking")
	}

	s.SetBusy("s2", true)
	if !s.IsBusy() || !s.IsSessionBusy("s2") {
		t.Fatal("s2 should be busy")
	}
	frame := s.spinnerFrame
	if _, cmd := s.Update(SidebarTickMsg(sidebarNow)); cmd == nil {
		t.Error("busy sidebar should schedule another tick")
	}
	if s.spinnerFrame == frame {
		t.Error("spinner should advance")
	}

	s.SetBusy("s2", false)
	if s.IsBusy() {
		t.Error("no session should be busy")
	}
}

func TestSidebar_View(t *testing.T) {
	s := newTestSidebar()
	s.SetActive("s2")
	view := ansi.Strip(s.View())

	for _, want := range []string{"Explain FFT", "Bode plots", "2 messages", "1 message ", "2m ago", "3h ago", "3d ago", "●"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSidebar_ScrollKeepsSelectionVisible(t *testing.T) {
	var sessions []session.Session
	for i := 0; i < 30; i++ {
		sessions = append(sessions, session.Session{ID: string(rune('a' + i)), Title: "Chat " + string(rune('A'+i)), UpdatedAt: sidebarNow})
	}
	s := NewSidebar()
	s.now = func() time.Time { return sidebarNow }
	s.SetSize(30, 10)
	s.SetFocused(true)
	s.SetSessions(sessions)

	for i := 0; i < 25; i++ {
		s.Update(keyPress("down"))
	}
	view := ansi.Strip(s.View())
	if !strings.Contains(view, "Chat Z") {
		t.Errorf("selected item not visible:\n%s", view)
	}
	if strings.Contains(view, "Chat A") {
		t.Errorf("first item should have scrolled away:\n%s", view)
	}
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{2 * time.Hour, "2h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Jan 30"},
	}
	for _, tt := range tests {
		if got := relativeTime(sidebarNow, sidebarNow.Add(-tt.ago)); got != tt.want {
			t.Errorf("relativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
