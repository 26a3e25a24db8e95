package modals

import (
	"image/color"

	"charm.land/bubbles/v2/help"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// ModalTheme styles huh fields with the current palette. Build it when the
// form is built so a theme switch shows up in the next dialog.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)
		fg := func(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

		// The field being edited gets a bar on its left edge
		f := &t.Focused
		f.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(ColorSecondary)
		f.Card = f.Base
		f.Title = fg(ColorPrimary).Bold(true)
		f.Description = fg(ColorTextMuted)
		f.ErrorIndicator = fg(ColorWarning).SetString(" !")
		f.ErrorMessage = fg(ColorWarning).Italic(true)

		f.SelectSelector = fg(ColorSecondary).SetString("▸ ")
		f.MultiSelectSelector = fg(ColorSecondary).SetString("▸ ")
		f.SelectedPrefix = fg(ColorSecondary).SetString("[x] ")
		f.UnselectedPrefix = fg(ColorTextMuted).SetString("[ ] ")
		f.NextIndicator = fg(ColorSecondary).MarginLeft(1).SetString("›")
		f.PrevIndicator = fg(ColorSecondary).MarginRight(1).SetString("‹")
		f.Option = fg(ColorText)
		f.SelectedOption = fg(ColorPrimary)

		f.FocusedButton = lipgloss.NewStyle().Padding(0, 2).MarginRight(1).
			Foreground(ColorTextInverse).Background(ColorSecondary)
		f.BlurredButton = lipgloss.NewStyle().Padding(0, 2).MarginRight(1).
			Foreground(ColorTextMuted)

		f.TextInput.Cursor = fg(ColorSecondary)
		f.TextInput.Placeholder = fg(ColorTextMuted).Italic(true)
		f.TextInput.Prompt = fg(ColorSecondary)
		f.TextInput.Text = fg(ColorText)

		// Other fields keep their place but lose the bar and arrows
		t.Blurred = *f
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base
		t.Blurred.Title = fg(ColorTextMuted).Bold(true)
		t.Blurred.NextIndicator = lipgloss.NewStyle()
		t.Blurred.PrevIndicator = lipgloss.NewStyle()

		t.Group.Title = fg(ColorPrimary).Bold(true)
		t.Group.Description = fg(ColorTextMuted)
		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles

		return t
	})
}
