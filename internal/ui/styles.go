package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/ecehelper/internal/ui/modals"
)

// Colors shared by components that build styles on the fly.
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorBorder      color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorUser        color.Color
	ColorWarning     color.Color
)

var (
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style

	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style

	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	SidebarMetaStyle     lipgloss.Style
	SidebarBusyStyle     lipgloss.Style
)

// Transcript and input.
var (
	ChatUserStyle         lipgloss.Style
	ChatAssistantStyle    lipgloss.Style
	ChatErrorStyle        lipgloss.Style
	ChatMessageStyle      lipgloss.Style
	ChatTimestampStyle    lipgloss.Style
	ChatInputStyle        lipgloss.Style
	ChatInputFocusedStyle lipgloss.Style
	ChatSuggestionStyle   lipgloss.Style
)

// Practical tabs.
var (
	TabStyle         lipgloss.Style
	TabActiveStyle   lipgloss.Style
	TabDisabledStyle lipgloss.Style
	TabSeparator     lipgloss.Style
	PlaceholderStyle lipgloss.Style
)

var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	StatusLoadingStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	StatusSuccessStyle lipgloss.Style
)

// Rendered markdown in assistant replies.
var (
	MarkdownH1Style         lipgloss.Style
	MarkdownH2Style         lipgloss.Style
	MarkdownH3Style         lipgloss.Style
	MarkdownH4Style         lipgloss.Style
	MarkdownBoldStyle       lipgloss.Style
	MarkdownItalicStyle     lipgloss.Style
	MarkdownInlineCodeStyle lipgloss.Style
	MarkdownListBulletStyle lipgloss.Style
	MarkdownBlockquoteStyle lipgloss.Style
	MarkdownHRStyle         lipgloss.Style
)

func init() {
	regenerateStyles()
}

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func boxed(border color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border)
}

// regenerateStyles rebuilds every style from currentTheme. Called on init
// and whenever the theme changes.
func regenerateStyles() {
	t := currentTheme
	hex := func(s string) color.Color { return lipgloss.Color(s) }

	ColorPrimary = hex(t.Primary)
	ColorSecondary = hex(t.Secondary)
	ColorBorder = hex(t.Border)
	ColorText = hex(t.Text)
	ColorTextMuted = hex(t.TextMuted)
	ColorTextInverse = hex(t.TextInverse)
	ColorUser = hex(t.User)
	ColorWarning = hex(t.Warning)
	focus := hex(t.GetBorderFocus())
	errColor := hex(t.Error)

	FooterStyle = fg(ColorTextMuted).Padding(0, 1)
	FooterKeyStyle = fg(ColorSecondary).Bold(true)
	FooterDescStyle = fg(ColorTextMuted)

	PanelStyle = boxed(ColorBorder)
	PanelFocusedStyle = boxed(focus)
	PanelTitleStyle = fg(ColorPrimary).Bold(true).Padding(0, 1)

	SidebarItemStyle = lipgloss.NewStyle().Padding(0, 1)
	SidebarSelectedStyle = fg(ColorText).
		Background(hex(t.GetBgSelected())).
		Bold(true).
		Padding(0, 1)
	SidebarMetaStyle = fg(ColorTextMuted).Italic(true)
	SidebarBusyStyle = fg(ColorSecondary)

	ChatUserStyle = fg(ColorUser).Bold(true)
	ChatAssistantStyle = fg(hex(t.Assistant)).Bold(true)
	ChatErrorStyle = fg(errColor).Bold(true)
	ChatMessageStyle = fg(ColorText)
	ChatTimestampStyle = fg(ColorTextMuted)
	ChatInputStyle = boxed(ColorBorder).Padding(0, 1)
	ChatInputFocusedStyle = boxed(focus).Padding(0, 1)
	ChatSuggestionStyle = fg(ColorSecondary).PaddingLeft(2)

	TabStyle = fg(ColorTextMuted).Padding(0, 1)
	TabActiveStyle = fg(ColorTextInverse).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	TabDisabledStyle = fg(ColorBorder).Strikethrough(true).Padding(0, 1)
	TabSeparator = fg(ColorBorder)
	PlaceholderStyle = fg(ColorTextMuted).Italic(true)

	ModalStyle = boxed(ColorPrimary).Padding(1, 2).Width(ModalWidth)
	ModalTitleStyle = fg(ColorPrimary).Bold(true).MarginBottom(1)
	ModalHelpStyle = fg(ColorTextMuted).Italic(true).MarginTop(1)

	StatusLoadingStyle = fg(ColorSecondary).Italic(true)
	StatusErrorStyle = fg(errColor).Bold(true)
	StatusSuccessStyle = fg(hex(t.Success))

	MarkdownH1Style = fg(hex(t.MarkdownH1)).Bold(true)
	MarkdownH2Style = fg(hex(t.MarkdownH2)).Bold(true)
	MarkdownH3Style = fg(hex(t.MarkdownH3)).Bold(true)
	MarkdownH4Style = fg(ColorTextMuted).Bold(true)
	MarkdownBoldStyle = fg(ColorText).Bold(true)
	MarkdownItalicStyle = fg(ColorText).Italic(true)
	MarkdownInlineCodeStyle = fg(hex(t.MarkdownCode)).Background(hex(t.MarkdownCodeBg))
	MarkdownListBulletStyle = fg(hex(t.MarkdownListItem))
	MarkdownBlockquoteStyle = fg(ColorTextMuted).
		Italic(true).
		BorderLeft(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(ColorTextMuted).
		PaddingLeft(1)
	MarkdownHRStyle = fg(ColorBorder)

	modals.SetStyles(modals.Palette{
		Title:          ModalTitleStyle,
		Help:           ModalHelpStyle,
		Item:           SidebarItemStyle,
		Selected:       SidebarSelectedStyle,
		Primary:        ColorPrimary,
		Secondary:      ColorSecondary,
		Text:           ColorText,
		TextMuted:      ColorTextMuted,
		TextInverse:    ColorTextInverse,
		Warning:        ColorWarning,
		Width:          ModalWidth,
		InputWidth:     ModalInputWidth,
		InputCharLimit: ModalInputCharLimit,
	})
}
