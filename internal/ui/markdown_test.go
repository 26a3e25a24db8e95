package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderMarkdown_Blocks(t *testing.T) {
	in := strings.Join([]string{
		"## Sampling",
		"The **Nyquist** rate is `2*fmax`.",
		"- aliasing folds high frequencies",
		"2. filter first",
		"> rule of thumb",
		"---",
	}, "\n")

	got := ansi.Strip(renderMarkdown(in, 60))

	for _, want := range []string{
		"Sampling",
		"The Nyquist rate is 2*fmax.",
		"  • aliasing folds high frequencies",
		"  2. filter first",
		"rule of thumb",
		"────",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "##") || strings.Contains(got, "**") {
		t.Errorf("markdown markers left in output:\n%s", got)
	}
}

func TestRenderMarkdown_CodeFence(t *testing.T) {
	in := "Try this:\n```matlab\nx = fft(y);\n```\nDone."
	got := ansi.Strip(renderMarkdown(in, 60))

	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
	if lines[1] != "" || lines[2] != "x = fft(y);" || lines[3] != "Done." {
		t.Errorf("unexpected layout: %q", lines)
	}
}

func TestRenderMarkdown_UnclosedFence(t *testing.T) {
	got := ansi.Strip(renderMarkdown("```latex\n\\frac{1}{2}", 60))
	if got != `\frac{1}{2}` {
		t.Errorf("got %q", got)
	}
}

func TestStyleInline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"use _care_ here", "use care here"},
		{"x_filtered_out stays", "x_filtered_out stays"},
		{"`**not bold**`", "**not bold**"},
		{"[docs](https://example.com)", "docs (https://example.com)"},
	}
	for _, tt := range tests {
		if got := ansi.Strip(styleInline(tt.in)); got != tt.want {
			t.Errorf("styleInline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHangingIndent(t *testing.T) {
	got := ansi.Strip(hangingIndent("•", "one two three four five six", 14))
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", got)
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "    ") {
			t.Errorf("continuation %q not indented", l)
		}
	}
}

func TestHighlightCode_UnknownLanguage(t *testing.T) {
	got := ansi.Strip(highlightCode("plain words", "no-such-lang"))
	if got != "plain words" {
		t.Errorf("got %q", got)
	}
}
