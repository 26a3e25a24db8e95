package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FooterContext selects which bindings the footer shows
type FooterContext struct {
	SidebarFocused bool
	PracticalView  bool
	Busy           bool // active session is sending or revealing
	PracticalBusy  bool // a practical request is in flight
	HasResult      bool // the practical view holds a result
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width    int
	ctx      FooterContext
	flash    string
	bindings []KeyBinding
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "n", Desc: "new chat"},
			{Key: "r", Desc: "rename"},
			{Key: "d", Desc: "delete"},
			{Key: "[/]", Desc: "resize"},
			{Key: "p", Desc: "practical"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(ctx FooterContext) {
	f.ctx = ctx
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows a transient status message in place of the bindings.
// An empty string clears it.
func (f *Footer) SetFlash(msg string) {
	f.flash = msg
}

// Flash returns the current flash message
func (f *Footer) Flash() string {
	return f.flash
}

// Bindings returns the bindings for the current context
func (f *Footer) Bindings() []KeyBinding {
	switch {
	case f.ctx.PracticalView && f.ctx.PracticalBusy:
		return []KeyBinding{
			{Key: "esc", Desc: "back to chat"},
			{Key: "q", Desc: "quit"},
		}
	case f.ctx.PracticalView && f.ctx.HasResult:
		return []KeyBinding{
			{Key: "tab/shift+tab", Desc: "switch tab"},
			{Key: "c", Desc: "copy"},
			{Key: "s", Desc: "save latex"},
			{Key: "g", Desc: "new topic"},
			{Key: "esc", Desc: "back to chat"},
		}
	case f.ctx.PracticalView:
		return []KeyBinding{
			{Key: "g", Desc: "choose topic"},
			{Key: "esc", Desc: "back to chat"},
			{Key: "q", Desc: "quit"},
		}
	case !f.ctx.SidebarFocused && f.ctx.Busy:
		return []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "ctrl+y", Desc: "copy reply"},
		}
	case !f.ctx.SidebarFocused:
		return []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "shift+enter", Desc: "newline"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "ctrl+y", Desc: "copy reply"},
		}
	}
	return f.bindings
}

// View renders the footer
func (f *Footer) View() string {
	if f.flash != "" {
		return FooterStyle.Width(f.width).Render(StatusLoadingStyle.Render(f.flash))
	}

	var parts []string
	for _, b := range f.Bindings() {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
