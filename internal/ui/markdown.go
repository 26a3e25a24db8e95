package ui

import (
	"bytes"
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
)

var (
	codeSpanRe   = regexp.MustCompile("`([^`]+)`")
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`(^|[^a-zA-Z0-9_])_([^_]+)_([^a-zA-Z0-9_]|$)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	orderedItem  = regexp.MustCompile(`^(\d{1,2})\. `)
	headingLevel = regexp.MustCompile(`^(#{1,4}) `)
)

// Fence labels the tutor uses that chroma knows under another name.
var fenceLanguages = map[string]string{
	"m":      "matlab",
	"octave": "matlab",
	"tex":    "latex",
}

// highlightCode colors code with chroma using the theme's CodeStyle. Unknown
// languages are guessed from the content; on any failure code is returned as is.
func highlightCode(code, language string) string {
	language = strings.ToLower(language)
	if name, ok := fenceLanguages[language]; ok {
		language = name
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	tokens, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}
	var out bytes.Buffer
	if err := formatters.TTY256.Format(&out, style, tokens); err != nil {
		return code
	}
	return strings.TrimRight(out.String(), "\n")
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Wordwrap(text, width, "")
}

// styleInline renders bold, italic and links. Code spans are cut out first
// so their contents are shown literally.
func styleInline(line string) string {
	var b strings.Builder
	last := 0
	for _, loc := range codeSpanRe.FindAllStringSubmatchIndex(line, -1) {
		b.WriteString(styleProse(line[last:loc[0]]))
		b.WriteString(MarkdownInlineCodeStyle.Render(line[loc[2]:loc[3]]))
		last = loc[1]
	}
	b.WriteString(styleProse(line[last:]))
	return b.String()
}

func styleProse(s string) string {
	s = boldRe.ReplaceAllStringFunc(s, func(m string) string {
		return MarkdownBoldStyle.Render(boldRe.FindStringSubmatch(m)[1])
	})
	// word-boundary underscores only, so x_filtered_out is left alone
	s = italicRe.ReplaceAllStringFunc(s, func(m string) string {
		g := italicRe.FindStringSubmatch(m)
		return g[1] + MarkdownItalicStyle.Render(g[2]) + g[3]
	})
	return linkRe.ReplaceAllStringFunc(s, func(m string) string {
		g := linkRe.FindStringSubmatch(m)
		return lipgloss.NewStyle().Underline(true).Render(g[1]) + " " + ChatTimestampStyle.Render("("+g[2]+")")
	})
}

// hangingIndent wraps text after a list marker and aligns continuation
// lines under the first word.
func hangingIndent(marker, text string, width int) string {
	pad := strings.Repeat(" ", 2+ansi.StringWidth(marker)+1)
	lines := strings.Split(wrapText(styleInline(text), width-len(pad)), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return "  " + marker + " " + strings.Join(lines, "\n")
}

var headingStyles = map[int]*lipgloss.Style{
	1: &MarkdownH1Style,
	2: &MarkdownH2Style,
	3: &MarkdownH3Style,
	4: &MarkdownH4Style,
}

// renderBlockLine renders one line outside a code fence.
func renderBlockLine(line string, width int) string {
	text := strings.TrimSpace(line)

	if m := headingLevel.FindStringSubmatch(text); m != nil {
		return headingStyles[len(m[1])].Render(text[len(m[0]):])
	}
	switch {
	case text == "---" || text == "***" || text == "___":
		return MarkdownHRStyle.Render(strings.Repeat("─", min(width, 32)))
	case strings.HasPrefix(text, "> "):
		return MarkdownBlockquoteStyle.Render(wrapText(styleInline(text[2:]), width-4))
	case strings.HasPrefix(text, "- "), strings.HasPrefix(text, "* "):
		return hangingIndent(MarkdownListBulletStyle.Render("•"), text[2:], width)
	}
	if m := orderedItem.FindStringSubmatch(text); m != nil {
		return hangingIndent(MarkdownListBulletStyle.Render(m[1]+"."), text[len(m[0]):], width)
	}
	return wrapText(styleInline(line), width)
}

// renderMarkdown renders a reply: block markdown, inline styling and
// chroma-highlighted fences. An unclosed fence, common mid-reveal, is
// highlighted as far as it goes.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var (
		out     []string
		fence   []string
		lang    string
		inFence bool
	)
	closeFence := func() {
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, highlightCode(strings.Join(fence, "\n"), lang))
		fence, inFence = nil, false
	}

	for _, line := range strings.Split(content, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "```"); ok {
			if inFence {
				closeFence()
			} else {
				inFence, lang = true, strings.TrimSpace(rest)
			}
			continue
		}
		if inFence {
			fence = append(fence, line)
			continue
		}
		out = append(out, renderBlockLine(line, width))
	}
	if inFence {
		closeFence()
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
