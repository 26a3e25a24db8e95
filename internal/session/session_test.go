package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

var ctx = context.Background()

// fakeRepo records saves and returns a fixed snapshot on load.
type fakeRepo struct {
	mu        sync.Mutex
	snap      Snapshot
	saves     [][]Session
	widths    []int
	saveErr   error
	loadCalls int
}

func (r *fakeRepo) Load(ctx context.Context) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadCalls++
	return r.snap
}

func (r *fakeRepo) Save(ctx context.Context, sessions []Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, sessions)
	return r.saveErr
}

func (r *fakeRepo) SaveSidebarWidth(ctx context.Context, width int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widths = append(r.widths, width)
	return r.saveErr
}

func (r *fakeRepo) lastSave(t *testing.T) []Session {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saves) == 0 {
		t.Fatal("expected at least one save")
	}
	return r.saves[len(r.saves)-1]
}

// testClock returns strictly increasing times one second apart.
func testClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestManager(t *testing.T, snap Snapshot) (*Manager, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{snap: snap}
	n := 0
	m := NewManager(repo,
		WithClock(testClock()),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("s%d", n)
		}),
	)
	m.Initialize(ctx)
	return m, repo
}

func msg(role Role, content string) Message {
	return Message{ID: NewMessageID(string(role)), Role: role, Content: content, Timestamp: time.Now()}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"short", "Explain FFT", "Explain FFT"},
		{"exactly 30", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"31 chars", strings.Repeat("b", 31), strings.Repeat("b", 30) + "..."},
		{"45 chars", "What is the difference between FFT and DFT?!!", "What is the difference between..."},
		{"multibyte", strings.Repeat("é", 35), strings.Repeat("é", 30) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTitle(tt.text)
			if got != tt.expected {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}

	if n := len([]rune(DeriveTitle(strings.Repeat("x", 45)))); n != 33 {
		t.Errorf("truncated title length = %d, want 33", n)
	}
}

func TestNewMessageID(t *testing.T) {
	a := NewMessageID(UserTag)
	b := NewMessageID(UserTag)
	if !strings.HasPrefix(a, "user-") {
		t.Errorf("id %q missing tag prefix", a)
	}
	if a == b {
		t.Error("successive ids should differ")
	}
}

func TestClampSidebarWidth(t *testing.T) {
	tests := []struct{ in, want int }{
		{100, MinSidebarWidth},
		{280, 280},
		{900, MaxSidebarWidth},
	}
	for _, tt := range tests {
		if got := ClampSidebarWidth(tt.in); got != tt.want {
			t.Errorf("ClampSidebarWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInitialize_EmptyStore(t *testing.T) {
	m, repo := newTestManager(t, Snapshot{})

	sessions := m.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if !sessions[0].IsEmpty() {
		t.Error("synthesized session should be empty")
	}
	if sessions[0].Title != DefaultTitle {
		t.Errorf("title = %q, want %q", sessions[0].Title, DefaultTitle)
	}
	if m.ActiveID() != sessions[0].ID {
		t.Error("synthesized session should be active")
	}
	if len(repo.saves) != 0 {
		t.Error("Initialize should not save")
	}
	if m.SidebarWidth() != DefaultSidebarWidth {
		t.Errorf("sidebar width = %d, want default", m.SidebarWidth())
	}
}

func TestInitialize_OnlyEmptySessions(t *testing.T) {
	snap := Snapshot{
		HasSessions: true,
		Sessions: []Session{
			{ID: "old1", Title: DefaultTitle},
			{ID: "old2", Title: DefaultTitle, Messages: []Message{}},
		},
	}
	m, _ := newTestManager(t, snap)

	sessions := m.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].ID == "old1" || sessions[0].ID == "old2" {
		t.Error("empty stored sessions should not be restored")
	}
	if !sessions[0].IsEmpty() || m.ActiveID() != sessions[0].ID {
		t.Error("expected a single empty active session")
	}
}

func TestInitialize_KeepsNonEmptyInOrder(t *testing.T) {
	snap := Snapshot{
		HasSessions: true,
		Sessions: []Session{
			{ID: "empty", Title: DefaultTitle},
			{ID: "a", Title: "A", Messages: []Message{msg(RoleUser, "hi")}},
			{ID: "b", Title: "B", Messages: []Message{msg(RoleUser, "yo")}},
		},
		HasSidebarWidth: true,
		SidebarWidth:    320,
	}
	m, _ := newTestManager(t, snap)

	sessions := m.Sessions()
	if len(sessions) != 2 || sessions[0].ID != "a" || sessions[1].ID != "b" {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
	if m.ActiveID() != "a" {
		t.Errorf("active = %q, want first non-empty session", m.ActiveID())
	}
	if m.SidebarWidth() != 320 {
		t.Errorf("sidebar width = %d, want 320", m.SidebarWidth())
	}
}

func TestInitialize_OnlyOnce(t *testing.T) {
	m, repo := newTestManager(t, Snapshot{})
	first := m.ActiveID()

	m.Initialize(ctx)
	if repo.loadCalls != 1 {
		t.Errorf("Load called %d times, want 1", repo.loadCalls)
	}
	if m.ActiveID() != first {
		t.Error("second Initialize should not change state")
	}
}

func TestBeforeInitialize_NoOps(t *testing.T) {
	repo := &fakeRepo{}
	m := NewManager(repo)

	if m.Initialized() {
		t.Error("should not be initialized")
	}
	if id := m.CreateSession(); id != "" {
		t.Errorf("CreateSession before Initialize returned %q", id)
	}
	if m.AppendMessage("x", msg(RoleUser, "hi")) {
		t.Error("AppendMessage before Initialize should be a no-op")
	}
	if m.SelectSession("x") {
		t.Error("SelectSession before Initialize should be a no-op")
	}
	if got := m.SetSidebarWidth(400); got != DefaultSidebarWidth {
		t.Errorf("SetSidebarWidth before Initialize = %d, want %d", got, DefaultSidebarWidth)
	}
	if m.SidebarWidth() != DefaultSidebarWidth || len(repo.widths) != 0 {
		t.Errorf("sidebar width changed before Initialize: %d, saved %v", m.SidebarWidth(), repo.widths)
	}
	if len(m.Sessions()) != 0 || len(repo.saves) != 0 {
		t.Error("no state or saves expected before Initialize")
	}
}

func TestCreateSession_Prepends(t *testing.T) {
	m, repo := newTestManager(t, Snapshot{})
	first := m.ActiveID()

	id := m.CreateSession()
	sessions := m.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != id || sessions[1].ID != first {
		t.Error("new session should be prepended")
	}
	if m.ActiveID() != id {
		t.Error("new session should be active")
	}
	if !sessions[0].CreatedAt.Equal(sessions[0].UpdatedAt) {
		t.Error("createdAt and updatedAt should match on creation")
	}
	if len(repo.lastSave(t)) != 2 {
		t.Error("create should persist the full list")
	}
}

func TestSelectSession(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	first := m.ActiveID()
	second := m.CreateSession()

	if !m.SelectSession(first) || m.ActiveID() != first {
		t.Error("SelectSession should switch active")
	}
	if m.SelectSession("missing") {
		t.Error("unknown id should be rejected")
	}
	if m.ActiveID() != first {
		t.Error("unknown id should not change active")
	}
	_ = second
}

func TestDeleteSession_NonActive(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	other := m.ActiveID()
	active := m.CreateSession()

	if !m.DeleteSession(other) {
		t.Fatal("delete should succeed")
	}
	if m.ActiveID() != active {
		t.Error("deleting a non-active session should not change active")
	}
	if len(m.Sessions()) != 1 {
		t.Errorf("expected 1 session, got %d", len(m.Sessions()))
	}
}

func TestDeleteSession_ActivePicksFirstRemaining(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	a := m.ActiveID()
	b := m.CreateSession()
	c := m.CreateSession() // order: c, b, a
	m.SelectSession(b)

	m.DeleteSession(b)
	if m.ActiveID() != c {
		t.Errorf("active = %q, want first remaining %q", m.ActiveID(), c)
	}
	_ = a
}

func TestDeleteSession_Only(t *testing.T) {
	m, repo := newTestManager(t, Snapshot{})
	only := m.ActiveID()

	m.DeleteSession(only)
	sessions := m.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].ID == only || !sessions[0].IsEmpty() {
		t.Error("expected a fresh empty session")
	}
	if m.ActiveID() != sessions[0].ID {
		t.Error("fresh session should be active")
	}
	if len(repo.lastSave(t)) != 1 {
		t.Error("delete should persist")
	}
}

func TestDeleteSession_Unknown(t *testing.T) {
	m, repo := newTestManager(t, Snapshot{})
	if m.DeleteSession("missing") {
		t.Error("unknown id should be a no-op")
	}
	if len(repo.saves) != 0 {
		t.Error("no-op should not save")
	}
}

func TestNonEmptyInvariant(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})

	ops := []string{"c", "d", "d", "c", "c", "d", "d", "d", "c", "d"}
	for i, op := range ops {
		switch op {
		case "c":
			m.CreateSession()
		case "d":
			m.DeleteSession(m.ActiveID())
		}
		if len(m.Sessions()) == 0 {
			t.Fatalf("session list empty after op %d", i)
		}
		if _, ok := m.Active(); !ok {
			t.Fatalf("no active session after op %d", i)
		}
	}
}

func TestRenameSession(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	id := m.ActiveID()
	before, _ := m.Get(id)

	if !m.RenameSession(id, "") {
		t.Fatal("rename should succeed")
	}
	after, _ := m.Get(id)
	if after.Title != "" {
		t.Errorf("title = %q, want empty", after.Title)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Error("rename should refresh updatedAt")
	}
	if m.RenameSession("missing", "x") {
		t.Error("unknown id should be a no-op")
	}
}

func TestUpdateSession_EmptyPatchRefreshesUpdatedAt(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	id := m.ActiveID()
	before, _ := m.Get(id)

	m.UpdateSession(id, Patch{})
	after, _ := m.Get(id)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Error("updatedAt should be refreshed")
	}
	if after.Title != before.Title {
		t.Error("title should be unchanged")
	}
}

func TestAppendMessage_Order(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	id := m.ActiveID()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 10 {
		m.AppendMessage(id, Message{ID: fmt.Sprintf("m%d", i), Role: RoleUser, Content: fmt.Sprint(i), Timestamp: ts})
	}

	s, _ := m.Get(id)
	if len(s.Messages) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(s.Messages))
	}
	for i, got := range s.Messages {
		if got.ID != fmt.Sprintf("m%d", i) {
			t.Errorf("message %d has id %q", i, got.ID)
		}
	}
}

func TestAppendMessage_DoesNotAliasEarlierCopies(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	id := m.ActiveID()
	m.AppendMessage(id, msg(RoleUser, "one"))

	before, _ := m.Get(id)
	m.AppendMessage(id, msg(RoleAssistant, "two"))

	if len(before.Messages) != 1 {
		t.Error("earlier copy should not see later appends")
	}
}

func TestDeriveTitleFromFirstMessage(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	id := m.ActiveID()
	text := "Please explain the sampling theorem in detail" // 45 chars

	if !m.DeriveTitleFromFirstMessage(id, text) {
		t.Fatal("title derivation should apply to an empty session")
	}
	s, _ := m.Get(id)
	if s.Title != text[:30]+"..." {
		t.Errorf("title = %q", s.Title)
	}

	m.AppendMessage(id, msg(RoleUser, text))
	if m.DeriveTitleFromFirstMessage(id, "other") {
		t.Error("title derivation should not apply once messages exist")
	}
}

func TestSetSidebarWidth(t *testing.T) {
	m, repo := newTestManager(t, Snapshot{})

	if got := m.SetSidebarWidth(1000); got != MaxSidebarWidth {
		t.Errorf("applied width = %d", got)
	}
	if m.SidebarWidth() != MaxSidebarWidth {
		t.Error("width not stored")
	}
	if len(repo.widths) != 1 || repo.widths[0] != MaxSidebarWidth {
		t.Errorf("saved widths = %v", repo.widths)
	}
}

func TestSaveErrorsAreSwallowed(t *testing.T) {
	m, repo := newTestManager(t, Snapshot{})
	repo.saveErr = errors.New("disk full")

	id := m.CreateSession()
	if id == "" || m.ActiveID() != id {
		t.Error("mutation should apply even when the save fails")
	}
}

func TestConcurrentAppends(t *testing.T) {
	m, _ := newTestManager(t, Snapshot{})
	id := m.ActiveID()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.AppendMessage(id, msg(RoleUser, fmt.Sprint(i)))
			_ = m.Sessions()
		}(i)
	}
	wg.Wait()

	s, _ := m.Get(id)
	if len(s.Messages) != 20 {
		t.Errorf("expected 20 messages, got %d", len(s.Messages))
	}
}
