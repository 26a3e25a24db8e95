package modals

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/ecehelper/internal/keys"
)

// SessionTitleCharLimit bounds a typed session title
const SessionTitleCharLimit = 120

func muted(s string) string { return lipgloss.NewStyle().Foreground(ColorTextMuted).Render(s) }

func emphasis(s string) string {
	return lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render(s)
}

// RenameSessionState edits a conversation title. Empty titles are allowed;
// the sidebar shows a placeholder for them.
type RenameSessionState struct {
	SessionID    string
	SessionTitle string
	TitleInput   textinput.Model
}

func NewRenameSessionState(sessionID, currentTitle string) *RenameSessionState {
	in := textinput.New()
	in.Placeholder = "enter new title"
	in.CharLimit = SessionTitleCharLimit
	in.SetWidth(ModalInputWidth)
	in.SetValue(currentTitle)
	in.Focus()
	return &RenameSessionState{SessionID: sessionID, SessionTitle: currentTitle, TitleInput: in}
}

func (*RenameSessionState) modalState() {}

func (s *RenameSessionState) Title() string { return "Rename Conversation" }

func (s *RenameSessionState) Help() string { return "Enter: save  Esc: cancel" }

func (s *RenameSessionState) Render() string {
	input := lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorPrimary).
		PaddingLeft(1).
		Render(s.TitleInput.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		muted("Current title:"),
		emphasis("  "+TruncateString(s.SessionTitle, ModalInputWidth)),
		"",
		muted("New title:"),
		input,
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *RenameSessionState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.TitleInput, cmd = s.TitleInput.Update(msg)
	return s, cmd
}

// GetNewTitle returns the typed title as is.
func (s *RenameSessionState) GetNewTitle() string { return s.TitleInput.Value() }

var deleteChoices = []string{"Cancel", "Delete"}

// ConfirmDeleteState asks before a conversation is removed. Cancel is
// preselected.
type ConfirmDeleteState struct {
	SessionID    string
	SessionTitle string
	MessageCount int
	Busy         bool // a reply is still pending for this session

	confirm bool
}

func NewConfirmDeleteState(sessionID, title string, messageCount int, busy bool) *ConfirmDeleteState {
	return &ConfirmDeleteState{
		SessionID:    sessionID,
		SessionTitle: title,
		MessageCount: messageCount,
		Busy:         busy,
	}
}

func (*ConfirmDeleteState) modalState() {}

func (s *ConfirmDeleteState) Title() string { return "Delete Conversation?" }

func (s *ConfirmDeleteState) Help() string {
	return "up/down to select, Enter to confirm, Esc to cancel"
}

func (s *ConfirmDeleteState) consequence() string {
	switch s.MessageCount {
	case 0:
		return "This permanently removes the conversation."
	case 1:
		return "This permanently removes the conversation and its 1 message."
	}
	return fmt.Sprintf("This permanently removes the conversation and its %d messages.", s.MessageCount)
}

func (s *ConfirmDeleteState) Render() string {
	lines := []string{
		ModalTitleStyle.Render(s.Title()),
		emphasis(TruncateString(s.SessionTitle, ModalInputWidth)),
		"",
		lipgloss.NewStyle().Foreground(ColorText).Render(s.consequence()),
		"",
	}
	if s.Busy {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(ColorWarning).Render("A reply is still pending and will be discarded."),
			"")
	}
	selected := 0
	if s.confirm {
		selected = 1
	}
	lines = append(lines, RenderSelectableList(deleteChoices, selected), ModalHelpStyle.Render(s.Help()))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Update moves between Cancel and Delete. y and n jump straight to one.
func (s *ConfirmDeleteState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch key.String() {
	case keys.Down, "j", "y":
		s.confirm = true
	case keys.Up, "k", "n":
		s.confirm = false
	}
	return s, nil
}

// Confirmed reports whether Delete is selected.
func (s *ConfirmDeleteState) Confirmed() bool { return s.confirm }
