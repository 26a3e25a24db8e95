package ui

import (
	"sync"
	"testing"
)

func TestGetViewContext_Singleton(t *testing.T) {
	ctx1 := GetViewContext()
	ctx2 := GetViewContext()

	if ctx1 != ctx2 {
		t.Error("GetViewContext should return the same instance")
	}
}

func TestViewContext_UpdateTerminalSize(t *testing.T) {
	ctx := newViewContext()

	ctx.UpdateTerminalSize(120, 40)

	if ctx.TerminalWidth != 120 || ctx.TerminalHeight != 40 {
		t.Errorf("terminal = %dx%d, want 120x40", ctx.TerminalWidth, ctx.TerminalHeight)
	}

	expectedContent := 40 - HeaderHeight - FooterHeight
	if ctx.ContentHeight != expectedContent {
		t.Errorf("Expected ContentHeight %d, got %d", expectedContent, ctx.ContentHeight)
	}

	// 280px default preference -> 28 columns
	if ctx.SidebarWidth != 28 {
		t.Errorf("Expected SidebarWidth 28, got %d", ctx.SidebarWidth)
	}
	if ctx.ChatWidth != 120-28 {
		t.Errorf("Expected ChatWidth %d, got %d", 120-28, ctx.ChatWidth)
	}
}

func TestViewContext_MinimumSize(t *testing.T) {
	ctx := newViewContext()
	ctx.UpdateTerminalSize(5, 2)

	if ctx.TerminalWidth != MinTerminalWidth || ctx.TerminalHeight != MinTerminalHeight {
		t.Errorf("terminal = %dx%d, want minimums", ctx.TerminalWidth, ctx.TerminalHeight)
	}
	if ctx.SidebarWidth > MinTerminalWidth/MaxSidebarFraction {
		t.Errorf("sidebar %d wider than half the terminal", ctx.SidebarWidth)
	}
}

func TestViewContext_SidebarPreference(t *testing.T) {
	tests := []struct {
		name     string
		px       int
		wantPref int
		wantCols int
	}{
		{"default", 280, 280, 28},
		{"minimum", 200, 200, 20},
		{"below minimum clamps", 50, 200, 20},
		{"maximum", 500, 500, 50},
		{"above maximum clamps", 900, 500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newViewContext()
			ctx.UpdateTerminalSize(200, 40)
			ctx.SetSidebarPreference(tt.px)

			if got := ctx.SidebarPreference(); got != tt.wantPref {
				t.Errorf("SidebarPreference() = %d, want %d", got, tt.wantPref)
			}
			if ctx.SidebarWidth != tt.wantCols {
				t.Errorf("SidebarWidth = %d, want %d", ctx.SidebarWidth, tt.wantCols)
			}
			if ctx.ChatWidth != 200-tt.wantCols {
				t.Errorf("ChatWidth = %d, want %d", ctx.ChatWidth, 200-tt.wantCols)
			}
		})
	}
}

func TestViewContext_SidebarCappedByTerminal(t *testing.T) {
	ctx := newViewContext()
	ctx.SetSidebarPreference(500)
	ctx.UpdateTerminalSize(60, 20)

	if ctx.SidebarWidth != 30 {
		t.Errorf("SidebarWidth = %d, want 30 (half of 60)", ctx.SidebarWidth)
	}
}

func TestViewContext_InnerDimensions(t *testing.T) {
	ctx := newViewContext()

	tests := []struct {
		size     int
		expected int
	}{
		{100, 98},
		{50, 48},
		{2, 0},
	}

	for _, tt := range tests {
		if got := ctx.InnerWidth(tt.size); got != tt.expected {
			t.Errorf("InnerWidth(%d) = %d, want %d", tt.size, got, tt.expected)
		}
		if got := ctx.InnerHeight(tt.size); got != tt.expected {
			t.Errorf("InnerHeight(%d) = %d, want %d", tt.size, got, tt.expected)
		}
	}
}

func TestViewContext_ConcurrentUpdates(t *testing.T) {
	ctx := newViewContext()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx.UpdateTerminalSize(80+n, 24+n)
			ctx.SetSidebarPreference(200 + n*5)
		}(i)
	}
	wg.Wait()

	if ctx.SidebarWidth+ctx.ChatWidth != ctx.TerminalWidth {
		t.Errorf("sidebar %d + chat %d != width %d", ctx.SidebarWidth, ctx.ChatWidth, ctx.TerminalWidth)
	}
}
