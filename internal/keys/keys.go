// Package keys names the key strings the app matches on.
//
// Every value is produced by tea.KeyPressMsg.String, so a comparison like
// msg.String() == keys.Escape cannot drift from what Bubble Tea reports.
// Plain printable keys ("?", "n", "/") are written inline by callers.
package keys

import tea "charm.land/bubbletea/v2"

func key(code rune) string { return tea.KeyPressMsg{Code: code}.String() }

func with(mod tea.KeyMod, code rune) string {
	return tea.KeyPressMsg{Code: code, Mod: mod}.String()
}

func ctrl(code rune) string { return with(tea.ModCtrl, code) }

// Movement in lists and the transcript.
var (
	Up     = key(tea.KeyUp)
	Down   = key(tea.KeyDown)
	Left   = key(tea.KeyLeft)
	Right  = key(tea.KeyRight)
	Home   = key(tea.KeyHome)
	End    = key(tea.KeyEnd)
	PgUp   = key(tea.KeyPgUp)
	PgDown = key(tea.KeyPgDown)
)

// Submitting, focus and dismissal. Shift/Alt+Enter insert a newline.
var (
	Enter      = key(tea.KeyEnter)
	ShiftEnter = with(tea.ModShift, tea.KeyEnter)
	AltEnter   = with(tea.ModAlt, tea.KeyEnter)
	Tab        = key(tea.KeyTab)
	ShiftTab   = with(tea.ModShift, tea.KeyTab)
	Escape     = key(tea.KeyEscape)
)

// Global shortcuts.
var (
	CtrlC    = ctrl('c')
	CtrlD    = ctrl('d')
	CtrlE    = ctrl('e')
	CtrlN    = ctrl('n')
	CtrlO    = ctrl('o')
	CtrlP    = ctrl('p')
	CtrlT    = ctrl('t')
	CtrlU    = ctrl('u')
	CtrlY    = ctrl('y')
	CtrlUp   = ctrl(tea.KeyUp)
	CtrlDown = ctrl(tea.KeyDown)
)
