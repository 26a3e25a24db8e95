package ui

import (
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/ecehelper/internal/keys"
	"github.com/zhubert/ecehelper/internal/practical"
	"github.com/zhubert/ecehelper/internal/session"
)

// Chat represents the right panel with conversation view
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	sessionID string
	messages  []session.Message

	waiting    map[string]waitState
	reveals    map[string]*revealState
	revealStep int
	spinnerIdx int

	// pendingTail is a finished reveal shown until its message is committed
	pendingTail *revealState

	suggestionIdx int

	// rendered history cache
	historyKey      string
	historyRendered string

	now func() time.Time
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = "Ask about signals, circuits, MATLAB..."
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:      vp,
		input:         ti,
		waiting:       make(map[string]waitState),
		reveals:       make(map[string]*revealState),
		revealStep:    DefaultRevealStep,
		suggestionIdx: -1,
		now:           time.Now,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()

	chatPanelHeight := height - InputTotalHeight
	viewportHeight := ctx.InnerHeight(chatPanelHeight)
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(viewportHeight)

	// Input width accounts for its own border AND padding
	c.input.SetWidth(ctx.InnerWidth(width) - InputPaddingWidth)

	c.historyKey = ""
	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetSession shows a session's committed messages. Switching sessions keeps
// the draft in the input.
func (c *Chat) SetSession(id string, messages []session.Message) {
	if id != c.sessionID {
		c.suggestionIdx = -1
		c.pendingTail = nil
	}
	c.sessionID = id

	// A committed message replaces the finished reveal it came from
	if c.pendingTail != nil {
		for _, m := range messages {
			if m.ID == c.pendingTail.stagedID {
				c.pendingTail = nil
				break
			}
		}
	}

	c.messages = messages
	c.updateContent()
}

// ClearSession clears the current session
func (c *Chat) ClearSession() {
	c.sessionID = ""
	c.messages = nil
	c.pendingTail = nil
	c.updateContent()
}

// SessionID returns the session shown in the panel
func (c *Chat) SessionID() string {
	return c.sessionID
}

// InputLocked reports whether the shown session is sending or revealing
func (c *Chat) InputLocked() bool {
	return c.IsSending(c.sessionID) || c.IsRevealing(c.sessionID) || c.pendingTail != nil
}

// GetInput returns the current input text
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// ClearInput clears the input field
func (c *Chat) ClearInput() {
	c.input.Reset()
	c.suggestionIdx = -1
}

// SetInput sets the input field value
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// LastAssistantMessage returns the newest assistant reply in the shown
// session, or "" if there is none
func (c *Chat) LastAssistantMessage() string {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == session.RoleAssistant {
			return c.messages[i].Content
		}
	}
	return ""
}

// LastPractical returns the newest practical payload attached to a message
func (c *Chat) LastPractical() *practical.Result {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Practical != nil {
			return c.messages[i].Practical
		}
	}
	return nil
}

func (c *Chat) showingSuggestions() bool {
	return c.sessionID != "" && len(c.messages) == 0 && !c.InputLocked()
}

// cycleSuggestion fills the input with the next or previous suggested prompt
func (c *Chat) cycleSuggestion(delta int) {
	n := len(practical.SuggestedPrompts)
	if n == 0 {
		return
	}
	if c.suggestionIdx < 0 {
		if delta > 0 {
			c.suggestionIdx = 0
		} else {
			c.suggestionIdx = n - 1
		}
	} else {
		c.suggestionIdx = (c.suggestionIdx + delta + n) % n
	}
	c.input.SetValue(practical.SuggestedPrompts[c.suggestionIdx])
	c.updateContent()
}

func renderNoSessionMessage() string {
	msgStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var sb strings.Builder
	sb.WriteString(msgStyle.Italic(true).Render("No conversation selected"))
	sb.WriteString("\n\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("n"))
	sb.WriteString(msgStyle.Render(" to start a new chat"))
	sb.WriteString("\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("p"))
	sb.WriteString(msgStyle.Render(" to generate a MATLAB practical"))
	return sb.String()
}

func (c *Chat) renderSuggestions() string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true).Render("Try one of these (↑/↓ to pick):"))
	for i, p := range practical.SuggestedPrompts {
		sb.WriteString("\n")
		style := ChatSuggestionStyle
		prefix := "  "
		if i == c.suggestionIdx {
			style = style.Bold(true)
			prefix = "> "
		}
		sb.WriteString(style.Render(prefix + p))
	}
	return sb.String()
}

// renderLabel renders the role line above a message
func renderLabel(role session.Role, failed bool, ts time.Time) string {
	var label string
	switch {
	case failed:
		label = ChatErrorStyle.Render("Error:")
	case role == session.RoleUser:
		label = ChatUserStyle.Render("You:")
	default:
		label = ChatAssistantStyle.Render("Tutor:")
	}
	if !ts.IsZero() {
		label += " " + ChatTimestampStyle.Render(ts.Local().Format("15:04"))
	}
	return label
}

func renderPracticalNote(r *practical.Result) string {
	if r == nil {
		return ""
	}
	return "\n" + ChatTimestampStyle.Render("practical attached: "+r.Topic+" (ctrl+o to open)")
}

func renderMessage(m session.Message, width int) string {
	failed := strings.HasPrefix(m.ID, session.ErrorTag+"-")
	var body string
	switch {
	case failed:
		body = ChatErrorStyle.Bold(false).Render(wrapText(m.Content, width))
	case m.Role == session.RoleUser:
		body = ChatMessageStyle.Render(wrapText(strings.TrimSpace(m.Content), width))
	default:
		body = renderMarkdown(strings.TrimSpace(m.Content), width)
	}
	return renderLabel(m.Role, failed, m.Timestamp) + "\n" + body + renderPracticalNote(m.Practical)
}

func (c *Chat) renderHistory(width int) string {
	var lastID string
	if n := len(c.messages); n > 0 {
		lastID = c.messages[n-1].ID
	}
	key := c.sessionID + "|" + strconv.Itoa(len(c.messages)) + "|" + lastID + "|" + strconv.Itoa(width) + "|" + CurrentTheme().Name
	if key == c.historyKey {
		return c.historyRendered
	}

	var sb strings.Builder
	for i, m := range c.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderMessage(m, width))
	}
	c.historyKey = key
	c.historyRendered = sb.String()
	return c.historyRendered
}

func (c *Chat) updateContent() {
	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	var sb strings.Builder

	switch {
	case c.sessionID == "":
		sb.WriteString(renderNoSessionMessage())
	default:
		sb.WriteString(c.renderHistory(wrapWidth))

		tail := c.reveals[c.sessionID]
		if tail == nil {
			tail = c.pendingTail
		}

		if w, ok := c.waiting[c.sessionID]; ok {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			elapsed := c.now().Sub(w.start)
			sb.WriteString(ChatAssistantStyle.Render("Tutor:"))
			sb.WriteString("\n")
			sb.WriteString(renderSpinner(w.verb, c.spinnerIdx))
			sb.WriteString(" ")
			sb.WriteString(lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(formatElapsed(elapsed)))
		} else if tail != nil {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(renderLabel(session.RoleAssistant, tail.failed, time.Time{}))
			sb.WriteString("\n")
			if tail.failed {
				sb.WriteString(ChatErrorStyle.Bold(false).Render(wrapText(tail.visible(), wrapWidth)))
			} else {
				sb.WriteString(renderMarkdown(tail.visible(), wrapWidth))
			}
			if tail.done() {
				sb.WriteString(renderPracticalNote(tail.practical))
			}
		}

		if c.showingSuggestions() {
			sb.WriteString(c.renderSuggestions())
		}
	}

	c.viewport.SetContent(sb.String())
	c.viewport.GotoBottom()
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	switch msg := msg.(type) {
	case StopwatchTickMsg:
		return c, c.handleStopwatchTick()
	case RevealTickMsg:
		return c, c.handleRevealTick(msg)
	}

	if c.focused && c.sessionID != "" {
		if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
			switch keyMsg.String() {
			case keys.PgUp, keys.PgDown, keys.CtrlUp, keys.CtrlDown, keys.Home, keys.End, keys.CtrlU, keys.CtrlD:
				var cmd tea.Cmd
				c.viewport, cmd = c.viewport.Update(msg)
				return c, cmd
			case keys.Up, keys.Down:
				if c.showingSuggestions() && (c.input.Value() == "" || c.suggestionIdx >= 0) {
					delta := 1
					if keyMsg.String() == keys.Up {
						delta = -1
					}
					c.cycleSuggestion(delta)
					return c, nil
				}
			}

			// Typing is ignored while the reply is pending
			if c.InputLocked() {
				return c, nil
			}

			if k := keyMsg.String(); k == keys.ShiftEnter || k == keys.AltEnter {
				c.input.InsertString("\n")
				return c, nil
			}

			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		}
		if _, isPaste := msg.(tea.PasteMsg); isPaste && !c.InputLocked() {
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	if c.sessionID == "" {
		return panelStyle.Width(c.width).Height(c.height).Render(renderNoSessionMessage())
	}

	chatPanelHeight := c.height - InputTotalHeight
	chatPanel := panelStyle.Width(c.width).Height(chatPanelHeight).Render(c.viewport.View())

	inputStyle := ChatInputStyle
	if c.focused && !c.InputLocked() {
		inputStyle = ChatInputFocusedStyle
	}
	inputView := c.input.View()
	if c.InputLocked() {
		inputView = PlaceholderStyle.Render("waiting for the reply...")
	}
	inputArea := inputStyle.Width(c.width).Render(inputView)

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}
