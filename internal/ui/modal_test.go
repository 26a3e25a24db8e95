package ui

import (
	"strings"
	"testing"

	"github.com/zhubert/ecehelper/internal/ui/modals"
)

func TestModal_ShowHide(t *testing.T) {
	m := NewModal()
	if m.IsVisible() {
		t.Fatal("new modal should be hidden")
	}
	if m.View(80, 24) != "" {
		t.Error("hidden modal should render nothing")
	}

	m.Show(modals.NewRenameSessionState("s1", "FFT"))
	if !m.IsVisible() {
		t.Fatal("modal should be visible after Show")
	}
	if !strings.Contains(m.View(80, 24), "Rename Conversation") {
		t.Error("view missing dialog title")
	}

	m.Hide()
	if m.IsVisible() || m.State != nil {
		t.Error("modal should be hidden after Hide")
	}
}

func TestModal_Error(t *testing.T) {
	m := NewModal()
	m.Show(modals.NewConfirmDeleteState("s1", "FFT", 2, false))
	m.SetError("Please enter a topic")

	if !strings.Contains(m.View(100, 30), "Please enter a topic") {
		t.Error("view missing error")
	}

	m.Update(keyPress("down"))
	if m.GetError() != "" {
		t.Error("keypress should clear the error")
	}

	m.SetError("x")
	m.Show(modals.NewConfirmDeleteState("s2", "Bode", 0, false))
	if m.GetError() != "" {
		t.Error("Show should clear the error")
	}
}

func TestModal_UpdateDelegates(t *testing.T) {
	m := NewModal()
	state := modals.NewConfirmDeleteState("s1", "FFT", 2, false)
	m.Show(state)

	m.Update(keyPress("y"))
	if !state.Confirmed() {
		t.Error("keypress was not forwarded to the dialog")
	}
}

func TestModal_UpdateHidden(t *testing.T) {
	m := NewModal()
	if _, cmd := m.Update(keyPress("y")); cmd != nil {
		t.Error("hidden modal should return no command")
	}
}
