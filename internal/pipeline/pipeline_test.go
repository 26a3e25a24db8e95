package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zhubert/ecehelper/internal/backend"
	perrors "github.com/zhubert/ecehelper/internal/errors"
	"github.com/zhubert/ecehelper/internal/practical"
	"github.com/zhubert/ecehelper/internal/session"
	"github.com/zhubert/ecehelper/internal/store"
)

var ctx = context.Background()

// mockChat returns a fixed reply and records every call.
type mockChat struct {
	mu    sync.Mutex
	calls [][]backend.Turn
	reply backend.Reply
	err   error
	block chan struct{}
}

func (m *mockChat) Chat(ctx context.Context, turns []backend.Turn) (backend.Reply, error) {
	m.mu.Lock()
	m.calls = append(m.calls, turns)
	m.mu.Unlock()
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return backend.Reply{}, ctx.Err()
		}
	}
	return m.reply, m.err
}

func (m *mockChat) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func setup(t *testing.T, chat *mockChat) (*Pipeline, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(store.New(store.NewMemoryKV()))
	mgr.Initialize(ctx)
	return New(mgr, chat), mgr
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateSending, "sending"},
		{StateStaged, "staged"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestExplainFFTScenario(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "FFT is..."}}
	p, mgr := setup(t, chat)
	id := mgr.CreateSession()

	staged, err := p.Send(ctx, id, "Explain FFT")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if p.State(id) != StateStaged {
		t.Fatalf("state = %v, want staged", p.State(id))
	}

	s, _ := mgr.Get(id)
	if len(s.Messages) != 1 {
		t.Fatalf("only the user message should be committed before reveal, got %d", len(s.Messages))
	}

	msg, ok := p.RevealComplete(id)
	if !ok {
		t.Fatal("RevealComplete should commit")
	}
	if msg.ID != staged.ID {
		t.Errorf("committed id %q, want staged id %q", msg.ID, staged.ID)
	}

	s, _ = mgr.Get(id)
	if len(s.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(s.Messages))
	}
	if s.Messages[0].Role != session.RoleUser || s.Messages[0].Content != "Explain FFT" {
		t.Errorf("first message = %+v", s.Messages[0])
	}
	if s.Messages[1].Role != session.RoleAssistant || s.Messages[1].Content != "FFT is..." {
		t.Errorf("second message = %+v", s.Messages[1])
	}
	if s.Title != "Explain FFT" {
		t.Errorf("title = %q", s.Title)
	}
	if p.State(id) != StateIdle {
		t.Error("pipeline should return to idle")
	}
}

func TestLongFirstMessageTitle(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "ok"}}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	input := "How does amplitude modulation work in radios?" // 45 chars
	if _, err := p.Send(ctx, id, input); err != nil {
		t.Fatal(err)
	}

	s, _ := mgr.Get(id)
	if s.Title != input[:30]+"..." {
		t.Errorf("title = %q", s.Title)
	}
}

func TestTitleOnlyFromFirstMessage(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "ok"}}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	p.Send(ctx, id, "first")
	p.RevealComplete(id)
	p.Send(ctx, id, "second")

	s, _ := mgr.Get(id)
	if s.Title != "first" {
		t.Errorf("title = %q, want first", s.Title)
	}
}

func TestSubmit_Blank(t *testing.T) {
	chat := &mockChat{}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	_, err := p.Submit(id, "   \n\t")
	if !perrors.Is(err, perrors.KindInvalid) {
		t.Errorf("expected invalid error, got %v", err)
	}
	s, _ := mgr.Get(id)
	if !s.IsEmpty() || p.State(id) != StateIdle {
		t.Error("blank input should change nothing")
	}
}

func TestSubmit_TrimsInput(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "ok"}}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	req, err := p.Submit(id, "  Explain FFT \n")
	if err != nil {
		t.Fatal(err)
	}
	if req.UserMsg.Content != "Explain FFT" {
		t.Errorf("content = %q", req.UserMsg.Content)
	}
	if !strings.HasPrefix(req.UserMsg.ID, "user-") {
		t.Errorf("id = %q", req.UserMsg.ID)
	}
}

func TestSubmit_UnknownSession(t *testing.T) {
	p, _ := setup(t, &mockChat{})
	if _, err := p.Submit("missing", "hi"); !perrors.Is(err, perrors.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAtMostOneStaged(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "ok"}}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	req, err := p.Submit(id, "one")
	if err != nil {
		t.Fatal(err)
	}

	// Sending
	if _, err := p.Submit(id, "two"); !perrors.Is(err, perrors.KindBusy) {
		t.Errorf("expected busy while sending, got %v", err)
	}

	p.Deliver(req.Run(ctx))

	// Staged
	if _, err := p.Submit(id, "three"); !perrors.Is(err, perrors.KindBusy) {
		t.Errorf("expected busy while staged, got %v", err)
	}
	if p.CanSubmit(id) {
		t.Error("CanSubmit should be false while staged")
	}

	if chat.callCount() != 1 {
		t.Errorf("backend called %d times, want 1", chat.callCount())
	}
	s, _ := mgr.Get(id)
	if len(s.Messages) != 1 {
		t.Errorf("rejected submissions should not append, got %d messages", len(s.Messages))
	}

	p.RevealComplete(id)
	if !p.CanSubmit(id) {
		t.Error("should accept input again after reveal")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "ok"}}
	p, mgr := setup(t, chat)
	a := mgr.ActiveID()
	b := mgr.CreateSession()

	if _, err := p.Submit(a, "hi"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Submit(b, "hi"); err != nil {
		t.Errorf("other session should accept input, got %v", err)
	}
}

func TestHistorySent(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "answer"}}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	p.Send(ctx, id, "q1")
	p.RevealComplete(id)
	p.Send(ctx, id, "q2")

	turns := chat.calls[1]
	want := []backend.Turn{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "answer"},
		{Role: "user", Content: "q2"},
	}
	if len(turns) != len(want) {
		t.Fatalf("sent %d turns, want %d", len(turns), len(want))
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, turns[i], want[i])
		}
	}
}

func TestBackendError_StagesApology(t *testing.T) {
	chat := &mockChat{err: errors.New("connection refused")}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	staged, err := p.Send(ctx, id, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if !staged.Failed || staged.Content != ErrorText {
		t.Errorf("staged = %+v", staged)
	}
	if !strings.HasPrefix(staged.ID, "error-") {
		t.Errorf("id = %q", staged.ID)
	}

	msg, _ := p.RevealComplete(id)
	if msg.Role != session.RoleAssistant || msg.Content != ErrorText {
		t.Errorf("committed = %+v", msg)
	}
}

func TestEmptyReply_Fallback(t *testing.T) {
	p, mgr := setup(t, &mockChat{})
	id := mgr.ActiveID()

	staged, _ := p.Send(ctx, id, "hi")
	if staged.Content != NoReplyText {
		t.Errorf("content = %q", staged.Content)
	}
}

func TestPracticalPayloadCarried(t *testing.T) {
	res := &practical.Result{Status: practical.StatusSuccess, Topic: "FFT", Theory: "t"}
	p, mgr := setup(t, &mockChat{reply: backend.Reply{Content: "here", Practical: res}})
	id := mgr.ActiveID()

	p.Send(ctx, id, "FFT practical")
	msg, _ := p.RevealComplete(id)
	if msg.Practical == nil || msg.Practical.Topic != "FFT" {
		t.Errorf("practical payload lost: %+v", msg.Practical)
	}
}

func TestRevealComplete_UsesCommitTime(t *testing.T) {
	p, mgr := setup(t, &mockChat{reply: backend.Reply{Content: "ok"}})
	id := mgr.ActiveID()
	commit := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	p.Send(ctx, id, "hi")
	p.SetClock(func() time.Time { return commit })
	msg, _ := p.RevealComplete(id)
	if !msg.Timestamp.Equal(commit) {
		t.Errorf("timestamp = %v, want %v", msg.Timestamp, commit)
	}
}

func TestRevealComplete_NothingStaged(t *testing.T) {
	p, mgr := setup(t, &mockChat{})
	if _, ok := p.RevealComplete(mgr.ActiveID()); ok {
		t.Error("RevealComplete with nothing staged should be a no-op")
	}
}

func TestDeleteWhileSending_DropsReply(t *testing.T) {
	chat := &mockChat{reply: backend.Reply{Content: "late"}, block: make(chan struct{})}
	p, mgr := setup(t, chat)
	keep := mgr.ActiveID()
	id := mgr.CreateSession()

	req, err := p.Submit(id, "hi")
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan Response)
	go func() { done <- req.Run(ctx) }()

	p.Cancel(id)
	mgr.DeleteSession(id)
	resp := <-done

	if resp.Err == nil {
		t.Error("cancelled request should report an error")
	}
	if _, ok := p.Deliver(resp); ok {
		t.Error("reply for a deleted session should be dropped")
	}
	if p.State(id) != StateIdle {
		t.Error("deleted session should have no pipeline state")
	}

	s, _ := mgr.Get(keep)
	if !s.IsEmpty() {
		t.Error("dropped reply should not land in another session")
	}
}

func TestDeletedWithoutCancel_DropsReply(t *testing.T) {
	p, mgr := setup(t, &mockChat{reply: backend.Reply{Content: "late"}})
	id := mgr.CreateSession()

	req, _ := p.Submit(id, "hi")
	resp := req.Run(ctx)
	mgr.DeleteSession(id)

	if _, ok := p.Deliver(resp); ok {
		t.Error("reply for a deleted session should be dropped")
	}
	if !p.CanSubmit(id) {
		t.Error("slot should be released")
	}
}

func TestInactiveSessionStillReceivesReply(t *testing.T) {
	p, mgr := setup(t, &mockChat{reply: backend.Reply{Content: "ok"}})
	first := mgr.ActiveID()

	req, _ := p.Submit(first, "hi")
	mgr.CreateSession() // switches active away from first
	if _, ok := p.Deliver(req.Run(ctx)); !ok {
		t.Fatal("reply for an existing session should be staged")
	}
	p.RevealComplete(first)

	s, _ := mgr.Get(first)
	if len(s.Messages) != 2 {
		t.Errorf("expected 2 messages in the original session, got %d", len(s.Messages))
	}
}

func TestRun_OuterContextCancel(t *testing.T) {
	chat := &mockChat{block: make(chan struct{})}
	p, mgr := setup(t, chat)
	id := mgr.ActiveID()

	req, _ := p.Submit(id, "hi")
	cctx, cancel := context.WithCancel(ctx)
	cancel()

	resp := req.Run(cctx)
	if !errors.Is(resp.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", resp.Err)
	}
	staged, ok := p.Deliver(resp)
	if !ok || !staged.Failed {
		t.Error("a failed call for a live session should stage the apology")
	}
}

func TestDeliver_DuplicateIgnored(t *testing.T) {
	p, mgr := setup(t, &mockChat{reply: backend.Reply{Content: "ok"}})
	id := mgr.ActiveID()

	req, _ := p.Submit(id, "hi")
	resp := req.Run(ctx)
	first, ok := p.Deliver(resp)
	if !ok {
		t.Fatal("first Deliver should stage")
	}
	if _, ok := p.Deliver(resp); ok {
		t.Error("second Deliver of the same response should be ignored")
	}
	staged, _ := p.Staged(id)
	if staged.ID != first.ID {
		t.Error("staged reply should not change")
	}
}
