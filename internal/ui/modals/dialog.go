// Package modals holds the dialogs the app opens over the main screen:
// renaming and deleting conversations, picking a practical topic, settings
// and the shortcut help. Each dialog is its own state type so handlers get
// typed access to what the user entered.
package modals

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/ecehelper/internal/keys"
)

// ModalState is one open dialog. Only types in this package implement it.
type ModalState interface {
	modalState()
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// RenderSelectableList draws options one per line, marking selected
func RenderSelectableList(options []string, selected int) string {
	var b strings.Builder
	for i, opt := range options {
		if i == selected {
			b.WriteString(selectedStyle.Render("> "+opt) + "\n")
			continue
		}
		b.WriteString(itemStyle.Render("  "+opt) + "\n")
	}
	return b.String()
}

// TruncateString cuts s to width cells, ending in "..."
func TruncateString(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}

// newForm applies the dialog look to fields and initializes the form so its
// first render is complete.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth).
		WithLayout(huh.LayoutStack)
	form.Init()
	return form
}

// updateForm passes msg to form. Enter and Esc are left to the app, which
// decides what submitting or cancelling a dialog means.
func updateForm(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && (k.String() == keys.Enter || k.String() == keys.Escape) {
		return form, nil
	}
	next, cmd := form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		return f, cmd
	}
	return form, cmd
}
