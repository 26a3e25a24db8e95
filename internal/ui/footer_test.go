package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func bindingKeys(bs []KeyBinding) []string {
	var keys []string
	for _, b := range bs {
		keys = append(keys, b.Key)
	}
	return keys
}

func hasKey(bs []KeyBinding, key string) bool {
	for _, b := range bs {
		if b.Key == key {
			return true
		}
	}
	return false
}

func TestFooter_Bindings(t *testing.T) {
	tests := []struct {
		name    string
		ctx     FooterContext
		want    []string
		notWant []string
	}{
		{
			name:    "sidebar focused",
			ctx:     FooterContext{SidebarFocused: true},
			want:    []string{"n", "d", "r", "[/]", "p", "q"},
			notWant: []string{"enter"},
		},
		{
			name:    "chat idle",
			ctx:     FooterContext{},
			want:    []string{"enter", "shift+enter", "ctrl+y"},
			notWant: []string{"q", "n"},
		},
		{
			name:    "chat busy hides send",
			ctx:     FooterContext{Busy: true},
			want:    []string{"pgup/dn"},
			notWant: []string{"enter"},
		},
		{
			name:    "practical empty",
			ctx:     FooterContext{PracticalView: true},
			want:    []string{"g", "esc"},
			notWant: []string{"c", "s"},
		},
		{
			name:    "practical in flight",
			ctx:     FooterContext{PracticalView: true, PracticalBusy: true, HasResult: true},
			want:    []string{"esc"},
			notWant: []string{"g", "c"},
		},
		{
			name: "practical result",
			ctx:  FooterContext{PracticalView: true, HasResult: true},
			want: []string{"tab/shift+tab", "c", "s", "g"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFooter()
			f.SetContext(tt.ctx)
			got := f.Bindings()

			for _, k := range tt.want {
				if !hasKey(got, k) {
					t.Errorf("missing %q in %v", k, bindingKeys(got))
				}
			}
			for _, k := range tt.notWant {
				if hasKey(got, k) {
					t.Errorf("unexpected %q in %v", k, bindingKeys(got))
				}
			}
		})
	}
}

func TestFooter_View(t *testing.T) {
	f := NewFooter()
	f.SetWidth(200)
	f.SetContext(FooterContext{SidebarFocused: true})

	view := ansi.Strip(f.View())
	if !strings.Contains(view, "n: new chat") {
		t.Errorf("footer %q missing new chat binding", view)
	}
	if !strings.Contains(view, "|") {
		t.Errorf("footer %q missing separators", view)
	}
}

func TestFooter_Flash(t *testing.T) {
	f := NewFooter()
	f.SetWidth(80)
	f.SetFlash("Copied to clipboard")

	view := ansi.Strip(f.View())
	if !strings.Contains(view, "Copied to clipboard") {
		t.Errorf("flash not shown: %q", view)
	}
	if strings.Contains(view, "quit") {
		t.Errorf("bindings should be hidden while flashing: %q", view)
	}

	f.SetFlash("")
	if f.Flash() != "" {
		t.Error("flash should clear")
	}
	if !strings.Contains(ansi.Strip(f.View()), "send") {
		t.Error("bindings should return after clearing the flash")
	}
}
