package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const appTitle = " ecehelper"

// Header is the one-line title bar: app name on the left, the active
// conversation (and a muted mode label) on the right, over a gradient.
type Header struct {
	width        int
	sessionTitle string
	mode         string
}

func NewHeader() *Header { return &Header{} }

func (h *Header) SetWidth(width int) { h.width = width }

func (h *Header) SetSessionTitle(title string) { h.sessionTitle = title }

// SetMode sets a label such as "practical" shown after the title.
func (h *Header) SetMode(mode string) { h.mode = mode }

func (h *Header) View() string {
	var title, label string
	if h.sessionTitle != "" {
		title = h.sessionTitle + " "
	}
	if h.mode != "" {
		label = "(" + h.mode + ") "
	}

	// the conversation title is cut before the app name is
	room := max(h.width-runewidth.StringWidth(appTitle)-1, 0)
	if runewidth.StringWidth(title+label) > room {
		title = ansi.Truncate(title+label, room, "…")
		label = ""
	}

	fill := max(h.width-runewidth.StringWidth(appTitle+title+label), 0)
	left := appTitle + strings.Repeat(" ", fill) + title
	return h.paint(left, label)
}

// paint draws plain then muted text over a Primary-to-Bg gradient, one
// cell per rune. The app name is bold.
func (h *Header) paint(plain, muted string) string {
	cells := []rune(plain + muted)
	if len(cells) == 0 {
		return ""
	}

	theme := CurrentTheme()
	from, to := lipgloss.Color(theme.Primary), lipgloss.Color(theme.Bg)
	text, dim := lipgloss.Color(theme.Text), lipgloss.Color(theme.TextMuted)
	mutedFrom := len([]rune(plain))
	boldUntil := len([]rune(appTitle))

	var b strings.Builder
	for i, r := range cells {
		st := lipgloss.NewStyle().
			Background(mix(from, to, float64(i)/float64(len(cells)))).
			Foreground(text).
			Bold(i < boldUntil)
		if i >= mutedFrom {
			st = st.Foreground(dim)
		}
		b.WriteString(st.Render(string(r)))
	}
	return b.String()
}

// mix linearly interpolates between a and b; t=0 gives a.
func mix(a, b color.Color, t float64) color.Color {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	ch := func(x, y uint32) uint8 {
		return uint8((float64(x)*(1-t) + float64(y)*t) / 257)
	}
	return color.RGBA{R: ch(ar, br), G: ch(ag, bg), B: ch(ab, bb), A: 0xff}
}
