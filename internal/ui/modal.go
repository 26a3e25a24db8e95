package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/ecehelper/internal/ui/modals"
)

// ModalState is implemented by every dialog in the modals package.
type ModalState = modals.ModalState

// Modal hosts at most one dialog over the main layout, plus a validation
// message the app sets when the dialog's input is rejected.
type Modal struct {
	State ModalState
	error string
}

func NewModal() *Modal { return &Modal{} }

// Show replaces any open dialog with state.
func (m *Modal) Show(state ModalState) { m.State, m.error = state, "" }

func (m *Modal) Hide() { m.Show(nil) }

func (m *Modal) IsVisible() bool { return m.State != nil }

func (m *Modal) SetError(err string) { m.error = err }

func (m *Modal) GetError() string { return m.error }

// Update hands msg to the open dialog. Any key press clears the validation
// message so it does not outlive the input it complained about.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if !m.IsVisible() {
		return m, nil
	}
	if _, typed := msg.(tea.KeyPressMsg); typed {
		m.error = ""
	}
	next, cmd := m.State.Update(msg)
	m.State = next
	return m, cmd
}

// View draws the dialog centered in a screen of the given size.
func (m *Modal) View(screenWidth, screenHeight int) string {
	if !m.IsVisible() {
		return ""
	}

	body := m.State.Render()
	if m.error != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, StatusErrorStyle.Render(m.error))
	}
	return lipgloss.Place(screenWidth, screenHeight, lipgloss.Center, lipgloss.Center, ModalStyle.Render(body))
}
