package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// flashDuration is how long a footer flash stays up
const flashDuration = 3 * time.Second

// flashClearMsg removes a flash if it is still the one shown
type flashClearMsg struct {
	text string
}

// ShowFlash displays text in the footer and schedules its removal
func (m *Model) ShowFlash(text string) tea.Cmd {
	m.footer.SetFlash(text)
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{text: text}
	})
}

func (m *Model) clearFlash(msg flashClearMsg) {
	if m.footer.Flash() == msg.text {
		m.footer.SetFlash("")
	}
}
