package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is the slice of the ui theme that dialogs draw with. The ui
// package pushes a fresh one on every theme change.
type Palette struct {
	Title    lipgloss.Style
	Help     lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style

	Primary     color.Color
	Secondary   color.Color
	Text        color.Color
	TextMuted   color.Color
	TextInverse color.Color
	Warning     color.Color

	Width          int // outer dialog width
	InputWidth     int
	InputCharLimit int
}

// Current dialog styles, set through SetStyles
var (
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
	itemStyle       lipgloss.Style
	selectedStyle   lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color

	ModalWidth          int
	ModalInputWidth     int
	ModalInputCharLimit int
)

// HelpModalMaxVisible is how many shortcut rows the help modal shows at once
var HelpModalMaxVisible = 14

// SetStyles installs p. Dialogs built afterwards pick it up.
func SetStyles(p Palette) {
	ModalTitleStyle, ModalHelpStyle = p.Title, p.Help
	itemStyle, selectedStyle = p.Item, p.Selected

	ColorPrimary, ColorSecondary = p.Primary, p.Secondary
	ColorText, ColorTextMuted, ColorTextInverse = p.Text, p.TextMuted, p.TextInverse
	ColorWarning = p.Warning

	ModalWidth, ModalInputWidth, ModalInputCharLimit = p.Width, p.InputWidth, p.InputCharLimit
}
