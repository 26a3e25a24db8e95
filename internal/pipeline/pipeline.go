// Package pipeline moves a chat message from the input box to the backend and
// back into the session.
//
// Each session has its own state machine:
//
//	Idle -> Sending -> Staged -> Idle
//
// Submit appends the user message and moves to Sending. The backend reply, or
// a fixed apology if the call failed, is staged by Deliver. The staged reply
// is only committed to the session when the UI reports that its reveal
// animation finished (RevealComplete). While a session is Sending or Staged,
// new submissions for it are rejected.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zhubert/ecehelper/internal/backend"
	perrors "github.com/zhubert/ecehelper/internal/errors"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/practical"
	"github.com/zhubert/ecehelper/internal/session"
)

// Reply texts used when the backend gave no usable answer.
const (
	NoReplyText = "Sorry, I could not process your request."
	ErrorText   = "Sorry, there was an error processing your request. Please try again."
)

// State of a session's pipeline.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStaged
)

func (s State) String() string {
	switch s {
	case StateSending:
		return "sending"
	case StateStaged:
		return "staged"
	default:
		return "idle"
	}
}

// Chatter sends a conversation to the backend. backend.Client implements it.
type Chatter interface {
	Chat(ctx context.Context, turns []backend.Turn) (backend.Reply, error)
}

// Sessions is the part of session.Manager the pipeline writes through.
type Sessions interface {
	Get(id string) (session.Session, bool)
	Exists(id string) bool
	AppendMessage(id string, msg session.Message) bool
	DeriveTitleFromFirstMessage(id, text string) bool
}

// Staged is an assistant reply waiting for its reveal to finish.
type Staged struct {
	ID        string // Message id the committed reply will carry
	SessionID string
	Content   string
	Practical *practical.Result
	Failed    bool // Content is the error apology, not a real answer
}

// slot is the per-session pipeline state. An Idle session has no slot.
type slot struct {
	state  State
	seq    uint64
	cancel context.CancelFunc
	staged *Staged
}

// Pipeline tracks the message lifecycle of every session.
type Pipeline struct {
	mu       sync.Mutex
	sessions Sessions
	chat     Chatter
	slots    map[string]*slot
	seq      uint64
	now      func() time.Time
}

// New creates a pipeline that appends to sessions and asks chat for replies.
func New(sessions Sessions, chat Chatter) *Pipeline {
	return &Pipeline{
		sessions: sessions,
		chat:     chat,
		slots:    make(map[string]*slot),
		now:      time.Now,
	}
}

// SetClock overrides the time source for message timestamps.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// Request is an accepted submission whose backend call has not run yet.
type Request struct {
	SessionID string
	Turns     []backend.Turn
	UserMsg   session.Message

	seq  uint64
	ctx  context.Context
	chat Chatter
}

// Response is the outcome of Request.Run, handed back to Deliver.
type Response struct {
	SessionID string
	Reply     backend.Reply
	Err       error

	seq uint64
}

// Submit accepts input for sessionID. The trimmed text is appended as a user
// message straight away, titling the session if it was empty. The returned
// Request carries the full history for the backend call.
func (p *Pipeline) Submit(sessionID, input string) (*Request, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, perrors.SubmissionBlank()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, busy := p.slots[sessionID]; busy {
		return nil, perrors.SubmissionBusy(sessionID)
	}
	s, ok := p.sessions.Get(sessionID)
	if !ok {
		return nil, perrors.SessionNotFound(sessionID)
	}

	if s.IsEmpty() {
		p.sessions.DeriveTitleFromFirstMessage(sessionID, text)
	}

	userMsg := session.Message{
		ID:        session.NewMessageID(session.UserTag),
		Role:      session.RoleUser,
		Content:   text,
		Timestamp: p.now(),
	}
	p.sessions.AppendMessage(sessionID, userMsg)

	turns := make([]backend.Turn, 0, len(s.Messages)+1)
	for _, m := range s.Messages {
		turns = append(turns, backend.Turn{Role: string(m.Role), Content: m.Content})
	}
	turns = append(turns, backend.Turn{Role: string(userMsg.Role), Content: userMsg.Content})

	ctx, cancel := context.WithCancel(context.Background())
	p.seq++
	p.slots[sessionID] = &slot{state: StateSending, seq: p.seq, cancel: cancel}

	logger.WithSession(sessionID).Info("message submitted", "turns", len(turns))

	return &Request{
		SessionID: sessionID,
		Turns:     turns,
		UserMsg:   userMsg,
		seq:       p.seq,
		ctx:       ctx,
		chat:      p.chat,
	}, nil
}

// Run performs the backend call. It returns early if either ctx or the
// request itself is cancelled.
func (r *Request) Run(ctx context.Context) Response {
	callCtx, cancel := context.WithCancel(r.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	reply, err := r.chat.Chat(callCtx, r.Turns)
	return Response{SessionID: r.SessionID, Reply: reply, Err: err, seq: r.seq}
}

// Deliver stages a response. It returns false and drops the response when the
// request was cancelled or its session no longer exists.
func (p *Pipeline) Deliver(resp Response) (Staged, bool) {
	log := logger.WithSession(resp.SessionID)

	p.mu.Lock()
	defer p.mu.Unlock()

	sl, ok := p.slots[resp.SessionID]
	if !ok || sl.seq != resp.seq || sl.state != StateSending {
		log.Info("dropping stale reply")
		return Staged{}, false
	}
	if !p.sessions.Exists(resp.SessionID) {
		sl.cancel()
		delete(p.slots, resp.SessionID)
		log.Info("dropping reply for deleted session")
		return Staged{}, false
	}

	staged := Staged{SessionID: resp.SessionID}
	if resp.Err != nil {
		log.Error("chat request failed", "error", resp.Err)
		staged.ID = session.NewMessageID(session.ErrorTag)
		staged.Content = ErrorText
		staged.Failed = true
	} else {
		staged.ID = session.NewMessageID(session.AssistantTag)
		staged.Content = resp.Reply.Content
		if staged.Content == "" {
			staged.Content = NoReplyText
		}
		staged.Practical = resp.Reply.Practical
	}

	sl.state = StateStaged
	sl.staged = &staged
	return staged, true
}

// RevealComplete commits the staged reply of sessionID as an assistant
// message and returns the session to Idle.
func (p *Pipeline) RevealComplete(sessionID string) (session.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sl, ok := p.slots[sessionID]
	if !ok || sl.state != StateStaged {
		return session.Message{}, false
	}
	staged := sl.staged
	sl.cancel()
	delete(p.slots, sessionID)

	msg := session.Message{
		ID:        staged.ID,
		Role:      session.RoleAssistant,
		Content:   staged.Content,
		Timestamp: p.now(),
		Practical: staged.Practical,
	}
	if !p.sessions.AppendMessage(sessionID, msg) {
		return session.Message{}, false
	}
	logger.WithSession(sessionID).Info("reply committed", "messageID", msg.ID)
	return msg, true
}

// Cancel aborts any request or staged reply for sessionID. Call it when the
// session is deleted.
func (p *Pipeline) Cancel(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sl, ok := p.slots[sessionID]; ok {
		sl.cancel()
		delete(p.slots, sessionID)
		logger.WithSession(sessionID).Info("pipeline cancelled", "state", sl.state.String())
	}
}

// State returns the current state of sessionID.
func (p *Pipeline) State(sessionID string) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sl, ok := p.slots[sessionID]; ok {
		return sl.state
	}
	return StateIdle
}

// Staged returns the reply awaiting reveal for sessionID, if any.
func (p *Pipeline) Staged(sessionID string) (Staged, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sl, ok := p.slots[sessionID]; ok && sl.staged != nil {
		return *sl.staged, true
	}
	return Staged{}, false
}

// CanSubmit reports whether sessionID is Idle.
func (p *Pipeline) CanSubmit(sessionID string) bool {
	return p.State(sessionID) == StateIdle
}

// Send runs Submit, Run and Deliver in sequence. The reply is left staged.
func (p *Pipeline) Send(ctx context.Context, sessionID, input string) (Staged, error) {
	req, err := p.Submit(sessionID, input)
	if err != nil {
		return Staged{}, err
	}
	staged, ok := p.Deliver(req.Run(ctx))
	if !ok {
		return Staged{}, perrors.SessionNotFound(sessionID)
	}
	return staged, nil
}
