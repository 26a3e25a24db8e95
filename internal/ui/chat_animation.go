package ui

import (
	"fmt"
	"math/rand"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"

	"github.com/zhubert/ecehelper/internal/pipeline"
	"github.com/zhubert/ecehelper/internal/practical"
)

// StopwatchTickMsg is sent to update the animated waiting display
type StopwatchTickMsg time.Time

// RevealTickMsg advances the typing reveal of one session's staged reply
type RevealTickMsg struct {
	SessionID string
}

// RevealCompleteMsg is emitted once a staged reply is fully visible.
// The app commits it to the session.
type RevealCompleteMsg struct {
	SessionID string
	StagedID  string
}

// thinkingVerbs cycle while waiting for the backend
var thinkingVerbs = []string{
	"Thinking",
	"Deriving",
	"Integrating",
	"Convolving",
	"Transforming",
	"Sampling",
	"Filtering",
	"Differentiating",
	"Simulating",
	"Plotting",
	"Vectorizing",
	"Computing",
}

// randomThinkingVerb returns a random verb from the list
func randomThinkingVerb() string {
	return thinkingVerbs[rand.Intn(len(thinkingVerbs))]
}

// spinnerFrames are the characters used for the shimmering spinner animation
var spinnerFrames = []string{"·", "✺", "✹", "✸", "✷", "✶", "✵", "✴", "✳", "✲", "✱", "✧", "✦", "·"}

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// RevealTick schedules the next reveal step for a session
func RevealTick(sessionID string) tea.Cmd {
	return tea.Tick(RevealTickMillis*time.Millisecond, func(time.Time) tea.Msg {
		return RevealTickMsg{SessionID: sessionID}
	})
}

// renderSpinner renders the shimmering spinner with the thinking verb.
func renderSpinner(verb string, frameIdx int) string {
	frame := spinnerFrames[frameIdx%len(spinnerFrames)]

	spinnerStyle := lipgloss.NewStyle().
		Foreground(ColorUser).
		Bold(true)

	verbStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Italic(true)

	return spinnerStyle.Render(frame) + " " + verbStyle.Render(verb+"...")
}

// formatElapsed formats a duration as "12s" or "1m 05s"
func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", secs/60, secs%60)
}

// waitState tracks one session in the Sending state
type waitState struct {
	start time.Time
	verb  string
}

// revealState tracks the typing reveal of one staged reply
type revealState struct {
	stagedID  string
	content   string
	cuts      []int // byte offset after each grapheme cluster
	shown     int   // clusters visible
	failed    bool
	practical *practical.Result
}

func newRevealState(staged pipeline.Staged) *revealState {
	r := &revealState{
		stagedID:  staged.ID,
		content:   staged.Content,
		failed:    staged.Failed,
		practical: staged.Practical,
	}
	g := uniseg.NewGraphemes(staged.Content)
	for g.Next() {
		_, end := g.Positions()
		r.cuts = append(r.cuts, end)
	}
	return r
}

// visible returns the revealed prefix
func (r *revealState) visible() string {
	if r.shown <= 0 {
		return ""
	}
	if r.shown >= len(r.cuts) {
		return r.content
	}
	return r.content[:r.cuts[r.shown-1]]
}

func (r *revealState) done() bool {
	return r.shown >= len(r.cuts)
}

// SetSending marks a session as waiting for the backend. The first waiting
// session starts the stopwatch.
func (c *Chat) SetSending(sessionID string, sending bool) tea.Cmd {
	wasIdle := len(c.waiting) == 0
	if sending {
		c.waiting[sessionID] = waitState{start: c.now(), verb: randomThinkingVerb()}
	} else {
		delete(c.waiting, sessionID)
	}
	if sessionID == c.sessionID {
		c.updateContent()
	}
	if sending && wasIdle {
		return StopwatchTick()
	}
	return nil
}

// IsSending reports whether the session is waiting for the backend
func (c *Chat) IsSending(sessionID string) bool {
	_, ok := c.waiting[sessionID]
	return ok
}

// StartReveal begins revealing a staged reply for its session
func (c *Chat) StartReveal(staged pipeline.Staged) tea.Cmd {
	delete(c.waiting, staged.SessionID)
	c.reveals[staged.SessionID] = newRevealState(staged)
	if staged.SessionID == c.sessionID {
		c.updateContent()
	}
	return RevealTick(staged.SessionID)
}

// IsRevealing reports whether the session has a reply being revealed
func (c *Chat) IsRevealing(sessionID string) bool {
	_, ok := c.reveals[sessionID]
	return ok
}

// SetRevealStep sets how many grapheme clusters appear per tick
func (c *Chat) SetRevealStep(n int) {
	if n < 1 {
		n = DefaultRevealStep
	}
	c.revealStep = n
}

// SkipReveal shows the rest of the session's reply at once
func (c *Chat) SkipReveal(sessionID string) tea.Cmd {
	r, ok := c.reveals[sessionID]
	if !ok {
		return nil
	}
	r.shown = len(r.cuts)
	return c.finishReveal(sessionID, r)
}

// DropSession forgets any waiting or reveal state for a session whose reply
// will never be committed
func (c *Chat) DropSession(sessionID string) {
	delete(c.waiting, sessionID)
	delete(c.reveals, sessionID)
	if sessionID == c.sessionID && c.pendingTail != nil {
		c.pendingTail = nil
		c.updateContent()
	}
}

func (c *Chat) finishReveal(sessionID string, r *revealState) tea.Cmd {
	delete(c.reveals, sessionID)
	// Leave the full text on screen until the app reloads the committed message
	if sessionID == c.sessionID {
		c.pendingTail = r
		c.updateContent()
	}
	msg := RevealCompleteMsg{SessionID: sessionID, StagedID: r.stagedID}
	return func() tea.Msg { return msg }
}

func (c *Chat) handleRevealTick(msg RevealTickMsg) tea.Cmd {
	r, ok := c.reveals[msg.SessionID]
	if !ok {
		return nil
	}
	r.shown += c.revealStep
	if r.done() {
		return c.finishReveal(msg.SessionID, r)
	}
	if msg.SessionID == c.sessionID {
		c.updateContent()
	}
	return RevealTick(msg.SessionID)
}

func (c *Chat) handleStopwatchTick() tea.Cmd {
	if len(c.waiting) == 0 {
		return nil
	}
	c.spinnerIdx = (c.spinnerIdx + 1) % len(spinnerFrames)
	if _, ok := c.waiting[c.sessionID]; ok {
		c.updateContent()
	}
	return StopwatchTick()
}
