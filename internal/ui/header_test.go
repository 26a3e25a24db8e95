package ui

import (
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHeader_View(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		mode     string
		contains []string
		absent   []string
	}{
		{"no session", "", "", []string{"ecehelper"}, []string{"("}},
		{"with session", "Explain FFT", "", []string{"ecehelper", "Explain FFT"}, nil},
		{"practical mode", "Explain FFT", "practical", []string{"Explain FFT (practical)"}, nil},
		{"mode only", "", "practical", []string{"(practical)"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeader()
			h.SetWidth(80)
			h.SetSessionTitle(tt.title)
			h.SetMode(tt.mode)

			view := ansi.Strip(h.View())
			for _, want := range tt.contains {
				if !strings.Contains(view, want) {
					t.Errorf("header %q missing %q", view, want)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(view, bad) {
					t.Errorf("header %q should not contain %q", view, bad)
				}
			}
		})
	}
}

func TestHeader_FillsWidth(t *testing.T) {
	for _, width := range []int{40, 80, 120} {
		h := NewHeader()
		h.SetWidth(width)
		h.SetSessionTitle("Design a low-pass filter")

		if got := ansi.StringWidth(h.View()); got != width {
			t.Errorf("width %d: rendered %d cells", width, got)
		}
	}
}

func TestHeader_TruncatesLongTitle(t *testing.T) {
	h := NewHeader()
	h.SetWidth(30)
	h.SetSessionTitle(strings.Repeat("convolution ", 10))

	view := ansi.Strip(h.View())
	if !strings.HasPrefix(view, " ecehelper") {
		t.Errorf("app title lost: %q", view)
	}
	if !strings.Contains(view, "…") {
		t.Errorf("expected ellipsis in %q", view)
	}
	if ansi.StringWidth(view) > 30 {
		t.Errorf("view wider than header: %d", ansi.StringWidth(view))
	}
}

func TestHeader_ZeroWidth(t *testing.T) {
	h := NewHeader()
	if got := ansi.Strip(h.View()); got != appTitle {
		t.Errorf("View() = %q, want %q", got, appTitle)
	}
}

func TestMix(t *testing.T) {
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	tests := []struct {
		t    float64
		want uint8
	}{
		{0, 0x00},
		{1, 0xff},
		{0.5, 0x7f},
	}
	for _, tt := range tests {
		got := mix(black, white, tt.t).(color.RGBA)
		if got.R != tt.want || got.G != tt.want || got.B != tt.want {
			t.Errorf("mix(t=%v) = %v, want gray %#x", tt.t, got, tt.want)
		}
	}
}
