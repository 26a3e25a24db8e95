package keys

import "testing"

func TestKeyStrings(t *testing.T) {
	want := map[string]string{
		Up: "up", Down: "down", Left: "left", Right: "right",
		Home: "home", End: "end", PgUp: "pgup", PgDown: "pgdown",
		Enter: "enter", ShiftEnter: "shift+enter", AltEnter: "alt+enter",
		Tab: "tab", ShiftTab: "shift+tab", Escape: "esc",
		CtrlC: "ctrl+c", CtrlD: "ctrl+d", CtrlE: "ctrl+e", CtrlN: "ctrl+n",
		CtrlO: "ctrl+o", CtrlP: "ctrl+p", CtrlT: "ctrl+t", CtrlU: "ctrl+u",
		CtrlY: "ctrl+y", CtrlUp: "ctrl+up", CtrlDown: "ctrl+down",
	}
	if len(want) != 25 {
		t.Fatalf("expected 25 distinct key strings, got %d", len(want))
	}
	for got, expected := range want {
		if got != expected {
			t.Errorf("key string %q, want %q", got, expected)
		}
	}
}
