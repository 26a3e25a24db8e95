package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/ecehelper/internal/keys"
	"github.com/zhubert/ecehelper/internal/practical"
)

// PracticalTickMsg animates the spinner while a practical is generating
type PracticalTickMsg time.Time

// PracticalTick returns a command that sends a tick message after a delay
func PracticalTick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return PracticalTickMsg(t)
	})
}

// PracticalView shows the practical generator: an in-flight spinner, an
// error, or the tabbed result.
type PracticalView struct {
	viewport viewport.Model
	width    int
	height   int

	busyTopic  string
	busySince  time.Time
	spinnerIdx int

	result    *practical.Result
	tabs      []practical.Tab
	activeTab int
	status    string

	now func() time.Time
}

// NewPracticalView creates an empty practical view
func NewPracticalView() *PracticalView {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return &PracticalView{viewport: vp, now: time.Now}
}

// SetSize sets the view dimensions
func (p *PracticalView) SetSize(width, height int) {
	p.width = width
	p.height = height

	ctx := GetViewContext()
	vh := ctx.InnerHeight(height) - TitleHeight - TabBarHeight - 1 // status line
	if vh < 1 {
		vh = 1
	}
	p.viewport.SetWidth(ctx.InnerWidth(width))
	p.viewport.SetHeight(vh)
	p.updateContent()
}

// Start shows the spinner for topic and drops any previous result
func (p *PracticalView) Start(topic string) tea.Cmd {
	p.busyTopic = topic
	p.busySince = p.now()
	p.result = nil
	p.tabs = nil
	p.activeTab = 0
	p.status = ""
	p.updateContent()
	return PracticalTick()
}

// Busy reports whether a practical is generating
func (p *PracticalView) Busy() bool {
	return p.busyTopic != ""
}

// SetResult shows a finished practical, successful or not
func (p *PracticalView) SetResult(r practical.Result) {
	p.busyTopic = ""
	p.result = &r
	p.tabs = nil
	p.activeTab = 0
	p.status = ""
	if r.IsSuccess() {
		p.tabs = r.Tabs()
	}
	p.updateContent()
}

// Result returns the shown result, or nil
func (p *PracticalView) Result() *practical.Result {
	return p.result
}

// HasTabs reports whether a successful result is shown
func (p *PracticalView) HasTabs() bool {
	return len(p.tabs) > 0
}

// ActiveTab returns the selected tab; ok is false when there are no tabs
func (p *PracticalView) ActiveTab() (practical.Tab, bool) {
	if p.activeTab < 0 || p.activeTab >= len(p.tabs) {
		return practical.Tab{}, false
	}
	return p.tabs[p.activeTab], true
}

// SetStatus shows a one-line note under the tabs, e.g. where the report was saved
func (p *PracticalView) SetStatus(status string) {
	p.status = status
	p.updateContent()
}

// moveTab selects the next enabled tab in direction delta, wrapping around
func (p *PracticalView) moveTab(delta int) {
	n := len(p.tabs)
	for i := 1; i <= n; i++ {
		next := ((p.activeTab+delta*i)%n + n) % n
		if !p.tabs[next].Disabled {
			p.activeTab = next
			p.viewport.GotoTop()
			p.updateContent()
			return
		}
	}
}

// Update handles messages
func (p *PracticalView) Update(msg tea.Msg) (*PracticalView, tea.Cmd) {
	switch msg := msg.(type) {
	case PracticalTickMsg:
		if !p.Busy() {
			return p, nil
		}
		p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
		p.updateContent()
		return p, PracticalTick()

	case tea.KeyPressMsg:
		switch msg.String() {
		case keys.Tab, keys.Right, "l":
			if p.HasTabs() {
				p.moveTab(1)
			}
			return p, nil
		case keys.ShiftTab, keys.Left, "h":
			if p.HasTabs() {
				p.moveTab(-1)
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *PracticalView) renderTabBar() string {
	var parts []string
	for i, t := range p.tabs {
		style := TabStyle
		switch {
		case i == p.activeTab:
			style = TabActiveStyle
		case t.Disabled:
			style = TabDisabledStyle
		}
		parts = append(parts, style.Render(t.Title))
	}
	return strings.Join(parts, TabSeparator.Render("│"))
}

func renderTab(t practical.Tab, width int) string {
	var sections []string
	if t.Disabled || (t.Code == "" && t.Placeholder != "") {
		sections = append(sections, PlaceholderStyle.Render(t.Placeholder))
	} else if t.Code != "" {
		sections = append(sections, highlightCode(t.Code, t.Language))
	}
	if t.Body != "" && !t.Disabled {
		sections = append(sections, renderMarkdown(t.Body, width))
	}
	if len(sections) == 0 {
		return PlaceholderStyle.Render("Nothing here.")
	}
	return strings.Join(sections, "\n\n")
}

func renderPracticalIntro() string {
	msgStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var sb strings.Builder
	sb.WriteString(msgStyle.Render("Press "))
	sb.WriteString(keyStyle.Render("g"))
	sb.WriteString(msgStyle.Render(" to choose a topic. Popular topics:"))
	for _, t := range practical.SuggestedTopics {
		sb.WriteString("\n")
		sb.WriteString(ChatSuggestionStyle.Render("• " + t))
	}
	return sb.String()
}

func (p *PracticalView) updateContent() {
	width := p.viewport.Width()
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var content string
	switch {
	case p.Busy():
		elapsed := p.now().Sub(p.busySince)
		content = renderSpinner("Generating practical for "+p.busyTopic, p.spinnerIdx) + " " +
			lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(formatElapsed(elapsed))
	case p.result == nil:
		content = renderPracticalIntro()
	case !p.result.IsSuccess():
		content = StatusErrorStyle.Render("Error: ") + wrapText(p.result.DisplayError(), width)
	default:
		if t, ok := p.ActiveTab(); ok {
			content = renderTab(t, width)
		}
	}
	p.viewport.SetContent(content)
}

// View renders the practical view
func (p *PracticalView) View() string {
	title := "MATLAB practical"
	switch {
	case p.Busy():
		title += ": " + p.busyTopic
	case p.result != nil && p.result.Topic != "":
		title += ": " + p.result.Topic
	}

	var parts []string
	parts = append(parts, PanelTitleStyle.Render(title))
	if p.HasTabs() {
		parts = append(parts, p.renderTabBar(), MarkdownHRStyle.Render(strings.Repeat("─", max(GetViewContext().InnerWidth(p.width), 0))))
	} else {
		parts = append(parts, "", "")
	}
	parts = append(parts, p.viewport.View())
	if p.status != "" {
		parts = append(parts, StatusSuccessStyle.Render(p.status))
	}

	return PanelFocusedStyle.
		Width(p.width).
		Height(p.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
