package ui

import (
	"sync"

	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/session"
)

// ViewContext is the single source of layout numbers: terminal size, the
// content band between header and footer, and the sidebar/chat split.
type ViewContext struct {
	TerminalWidth  int
	TerminalHeight int

	HeaderHeight  int
	FooterHeight  int
	ContentHeight int
	SidebarWidth  int
	ChatWidth     int

	sidebarPx int // persisted preference, already clamped

	mu sync.Mutex
}

var (
	viewCtx     *ViewContext
	viewCtxOnce sync.Once
)

// GetViewContext returns the process-wide ViewContext.
func GetViewContext() *ViewContext {
	viewCtxOnce.Do(func() { viewCtx = newViewContext() })
	return viewCtx
}

func newViewContext() *ViewContext {
	return &ViewContext{
		HeaderHeight: HeaderHeight,
		FooterHeight: FooterHeight,
		sidebarPx:    session.DefaultSidebarWidth,
	}
}

// SidebarColumns maps a pixel width preference to terminal columns.
func SidebarColumns(px int) int {
	return session.ClampSidebarWidth(px) / PixelsPerColumn
}

// SetSidebarPreference stores a new sidebar width in pixels and re-splits
// the layout if the terminal size is known.
func (v *ViewContext) SetSidebarPreference(px int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sidebarPx = session.ClampSidebarWidth(px)
	if v.TerminalWidth > 0 {
		v.split()
	}
}

// SidebarPreference returns the stored width in pixels.
func (v *ViewContext) SidebarPreference() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sidebarPx
}

// UpdateTerminalSize records a resize. Sizes below the minimum are raised
// to it.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.TerminalWidth = max(width, MinTerminalWidth)
	v.TerminalHeight = max(height, MinTerminalHeight)
	v.ContentHeight = v.TerminalHeight - v.HeaderHeight - v.FooterHeight
	v.split()

	logger.WithComponent("ui").Debug("layout",
		"width", v.TerminalWidth,
		"height", v.TerminalHeight,
		"sidebar", v.SidebarWidth,
		"chat", v.ChatWidth,
	)
}

// split divides the width between sidebar and chat. The sidebar never takes
// more than 1/MaxSidebarFraction of the terminal. Caller holds mu.
func (v *ViewContext) split() {
	v.SidebarWidth = min(SidebarColumns(v.sidebarPx), v.TerminalWidth/MaxSidebarFraction)
	v.ChatWidth = v.TerminalWidth - v.SidebarWidth
}

// InnerWidth is the space inside a bordered panel of the given width.
func (v *ViewContext) InnerWidth(panelWidth int) int { return panelWidth - BorderSize }

// InnerHeight is the space inside a bordered panel of the given height.
func (v *ViewContext) InnerHeight(panelHeight int) int { return panelHeight - BorderSize }
