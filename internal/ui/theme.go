package ui

// Theme is a color palette. Colors are hex strings; empty optional fields
// fall back to Primary.
type Theme struct {
	Name string // shown in settings

	Primary   string // focus, headers, selection
	Secondary string // assistant text, info

	Bg         string
	BgSelected string // optional

	Text        string
	TextMuted   string
	TextInverse string // on Primary backgrounds

	User      string
	Assistant string
	Warning   string
	Error     string // failed replies and practicals
	Success   string

	Border      string
	BorderFocus string // optional

	MarkdownH1       string
	MarkdownH2       string
	MarkdownH3       string
	MarkdownCode     string
	MarkdownCodeBg   string
	MarkdownListItem string

	// CodeStyle is the chroma style for MATLAB and LaTeX blocks
	CodeStyle string
}

// GetBgSelected returns BgSelected or Primary
func (t Theme) GetBgSelected() string {
	return orPrimary(t.BgSelected, t)
}

// GetBorderFocus returns BorderFocus or Primary
func (t Theme) GetBorderFocus() string {
	return orPrimary(t.BorderFocus, t)
}

func orPrimary(c string, t Theme) string {
	if c == "" {
		return t.Primary
	}
	return c
}

// ThemeName identifies a builtin theme in config
type ThemeName string

const (
	ThemeSlate        ThemeName = "slate"
	ThemeOscilloscope ThemeName = "oscilloscope"
	ThemeMatlab       ThemeName = "matlab"
	ThemeNord         ThemeName = "nord"
	ThemeLight        ThemeName = "light"
)

// DefaultTheme matches the teal-on-slate look of the web client
const DefaultTheme = ThemeSlate

// BuiltinThemes holds every theme by name
var BuiltinThemes = map[ThemeName]Theme{
	ThemeSlate: {
		Name:             "Slate",
		Primary:          "#14B8A6",
		Secondary:        "#06B6D4",
		Bg:               "#1E293B",
		Text:             "#F1F5F9",
		TextMuted:        "#94A3B8",
		TextInverse:      "#0F172A",
		User:             "#5EEAD4",
		Assistant:        "#67E8F9",
		Warning:          "#F59E0B",
		Error:            "#F87171",
		Success:          "#34D399",
		Border:           "#334155",
		MarkdownH1:       "#2DD4BF",
		MarkdownH2:       "#22D3EE",
		MarkdownH3:       "#7DD3FC",
		MarkdownCode:     "#99F6E4",
		MarkdownCodeBg:   "#0F172A",
		MarkdownListItem: "#14B8A6",
		CodeStyle:        "monokai",
	},
	ThemeOscilloscope: {
		Name:             "Oscilloscope",
		Primary:          "#39FF14",
		Secondary:        "#FFD400",
		Bg:               "#0B0F0B",
		BgSelected:       "#1A3D12",
		Text:             "#C8F7C5",
		TextMuted:        "#5F8F5A",
		TextInverse:      "#0B0F0B",
		User:             "#FFD400",
		Assistant:        "#39FF14",
		Warning:          "#FFB000",
		Error:            "#FF4D4D",
		Success:          "#39FF14",
		Border:           "#1F3A1C",
		MarkdownH1:       "#39FF14",
		MarkdownH2:       "#A3FF8F",
		MarkdownH3:       "#FFD400",
		MarkdownCode:     "#FFD400",
		MarkdownCodeBg:   "#050805",
		MarkdownListItem: "#39FF14",
		CodeStyle:        "rrt",
	},
	ThemeMatlab: {
		Name:             "MATLAB",
		Primary:          "#E16737",
		Secondary:        "#0076A8",
		Bg:               "#FFFFFF",
		BgSelected:       "#FCE6DC",
		Text:             "#1A1A1A",
		TextMuted:        "#6E6E6E",
		TextInverse:      "#FFFFFF",
		User:             "#E16737",
		Assistant:        "#0076A8",
		Warning:          "#B7791F",
		Error:            "#C53030",
		Success:          "#228B22",
		Border:           "#C8C8C8",
		BorderFocus:      "#0076A8",
		MarkdownH1:       "#0076A8",
		MarkdownH2:       "#E16737",
		MarkdownH3:       "#00598A",
		MarkdownCode:     "#228B22",
		MarkdownCodeBg:   "#F5F5F5",
		MarkdownListItem: "#E16737",
		CodeStyle:        "vs",
	},
	ThemeNord: {
		Name:             "Nord",
		Primary:          "#88C0D0",
		Secondary:        "#81A1C1",
		Bg:               "#2E3440",
		Text:             "#ECEFF4",
		TextMuted:        "#D8DEE9",
		TextInverse:      "#2E3440",
		User:             "#A3BE8C",
		Assistant:        "#88C0D0",
		Warning:          "#EBCB8B",
		Error:            "#BF616A",
		Success:          "#A3BE8C",
		Border:           "#4C566A",
		MarkdownH1:       "#88C0D0",
		MarkdownH2:       "#81A1C1",
		MarkdownH3:       "#5E81AC",
		MarkdownCode:     "#A3BE8C",
		MarkdownCodeBg:   "#242933",
		MarkdownListItem: "#81A1C1",
		CodeStyle:        "nord",
	},
	ThemeLight: {
		Name:             "Light",
		Primary:          "#0D9488",
		Secondary:        "#0891B2",
		Bg:               "#F8FAFC",
		BgSelected:       "#CCFBF1",
		Text:             "#0F172A",
		TextMuted:        "#475569",
		TextInverse:      "#FFFFFF",
		User:             "#0F766E",
		Assistant:        "#0E7490",
		Warning:          "#D97706",
		Error:            "#DC2626",
		Success:          "#16A34A",
		Border:           "#E2E8F0",
		MarkdownH1:       "#0F766E",
		MarkdownH2:       "#0E7490",
		MarkdownH3:       "#334155",
		MarkdownCode:     "#059669",
		MarkdownCodeBg:   "#F1F5F9",
		MarkdownListItem: "#0D9488",
		CodeStyle:        "github",
	},
}

var themeOrder = []ThemeName{ThemeSlate, ThemeOscilloscope, ThemeMatlab, ThemeNord, ThemeLight}

// ThemeNames lists the builtin themes in the order settings shows them
func ThemeNames() []ThemeName {
	return append([]ThemeName(nil), themeOrder...)
}

// GetTheme returns the named theme, or the default one
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

var (
	currentName  = DefaultTheme
	currentTheme = BuiltinThemes[DefaultTheme]
)

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// CurrentThemeName returns the key of the active theme
func CurrentThemeName() ThemeName {
	return currentName
}

// SetTheme activates name, or the default for an unknown name, and rebuilds
// every style
func SetTheme(name ThemeName) {
	if _, ok := BuiltinThemes[name]; !ok {
		name = DefaultTheme
	}
	currentName = name
	currentTheme = BuiltinThemes[name]
	regenerateStyles()
}

// SetThemeByName is SetTheme for a config string
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// NextTheme returns the theme after name, wrapping around. Unknown names
// restart at the default.
func NextTheme(name ThemeName) ThemeName {
	for i, n := range themeOrder {
		if n == name {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return DefaultTheme
}
