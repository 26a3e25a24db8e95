package ui

// Layout, in terminal cells.
const (
	HeaderHeight = 1
	FooterHeight = 1
	BorderSize   = 2 // one cell each side
	TitleHeight  = 1
	TabBarHeight = 2 // practical tabs plus the rule under them

	TextareaHeight    = 3
	InputPaddingWidth = 2
	InputTotalHeight  = TextareaHeight + 2 // rounded border

	// DefaultWrapWidth is used before the first WindowSizeMsg.
	DefaultWrapWidth = 80

	MinTerminalWidth  = 40
	MinTerminalHeight = 10
)

// The sidebar width is persisted in pixels, as the web client stores it, and
// drawn at PixelsPerColumn pixels per terminal column.
const (
	PixelsPerColumn    = 10
	SidebarResizeStep  = 20 // pixels per [ or ]
	MaxSidebarFraction = 2
)

// Reply reveal pacing.
const (
	RevealTickMillis  = 16
	DefaultRevealStep = 3 // grapheme clusters per tick
)

const (
	ModalWidth          = 60
	ModalInputWidth     = 50
	ModalInputCharLimit = 256
)
