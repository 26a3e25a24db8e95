package modals

import "testing"

func newSettings(notify bool) *SettingsState {
	return NewSettingsState(
		[]string{"slate", "nord"},
		[]string{"Slate", "Nord"},
		"slate",
		" http://localhost:5000 ",
		3,
		notify,
	)
}

func TestSettingsState_Initial(t *testing.T) {
	s := newSettings(true)

	if s.GetSelectedTheme() != "slate" || s.ThemeChanged() {
		t.Errorf("theme = %q changed=%v", s.GetSelectedTheme(), s.ThemeChanged())
	}
	if s.GetBackendURL() != "http://localhost:5000" {
		t.Errorf("GetBackendURL() = %q", s.GetBackendURL())
	}
	if n, ok := s.GetRevealSpeed(); !ok || n != 3 {
		t.Errorf("GetRevealSpeed() = %d, %v", n, ok)
	}
	if !s.NotificationsEnabled {
		t.Error("notifications should start enabled")
	}
}

func TestSettingsState_ThemeChange(t *testing.T) {
	s := newSettings(false)
	s.Update(press("down"))
	if s.GetSelectedTheme() != "nord" {
		t.Errorf("theme = %q", s.GetSelectedTheme())
	}
	if !s.ThemeChanged() {
		t.Error("ThemeChanged() should be true")
	}
}

func TestSettingsState_RevealSpeed(t *testing.T) {
	tests := []struct {
		in string
		n  int
		ok bool
	}{
		{"5", 5, true},
		{" 12 ", 12, true},
		{"0", 0, false},
		{"-2", 0, false},
		{"fast", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		s := newSettings(false)
		s.speed = tt.in
		n, ok := s.GetRevealSpeed()
		if n != tt.n || ok != tt.ok {
			t.Errorf("%q: got %d,%v want %d,%v", tt.in, n, ok, tt.n, tt.ok)
		}
		if (validateRevealSpeed(tt.in) == nil) != tt.ok {
			t.Errorf("%q: validate disagrees with GetRevealSpeed", tt.in)
		}
	}
}
