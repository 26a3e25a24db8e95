package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/zhubert/ecehelper/internal/logger"
)

// saveTimeout bounds each write-back to the repository.
const saveTimeout = 5 * time.Second

// Manager owns the session list and the active pointer.
// All methods are safe for concurrent use.
type Manager struct {
	mu           sync.RWMutex
	saveMu       sync.Mutex // Serializes mutate+save so writes land in order
	repo         Repository
	sessions     []Session
	activeID     string
	sidebarWidth int
	initialized  bool

	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager creates a Manager backed by repo. Call Initialize before use.
func NewManager(repo Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:         repo,
		sidebarWidth: DefaultSidebarWidth,
		now:          time.Now,
		newID:        NewID,
		log:          logger.WithComponent("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize loads state from the repository. Only the first call has any
// effect. Empty sessions are dropped; if none survive, one new empty session
// is created. The first session becomes active. The result is not saved.
func (m *Manager) Initialize(ctx context.Context) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return
	}

	snap := m.repo.Load(ctx)

	var kept []Session
	if snap.HasSessions {
		for _, s := range snap.Sessions {
			if !s.IsEmpty() {
				kept = append(kept, s)
			}
		}
	}
	if len(kept) == 0 {
		kept = []Session{m.newSession()}
		m.log.Info("no saved sessions, starting fresh")
	} else {
		m.log.Info("restored sessions", "count", len(kept), "dropped", len(snap.Sessions)-len(kept))
	}

	m.sessions = kept
	m.activeID = kept[0].ID
	if snap.HasSidebarWidth {
		m.sidebarWidth = ClampSidebarWidth(snap.SidebarWidth)
	}
	m.initialized = true
}

// Initialized reports whether Initialize has run.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// newSession builds an empty session. Caller holds mu.
func (m *Manager) newSession() Session {
	now := m.now()
	return Session{
		ID:        m.newID(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// indexOf returns the position of id in the list, or -1. Caller holds mu.
func (m *Manager) indexOf(id string) int {
	return slices.IndexFunc(m.sessions, func(s Session) bool { return s.ID == id })
}

// mutate runs fn under the write lock and, if fn reports a change, saves the
// resulting list. Returns whether fn changed anything.
func (m *Manager) mutate(fn func() bool) bool {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return false
	}
	changed := fn()
	var snapshot []Session
	if changed {
		snapshot = m.cloneSessions()
	}
	m.mu.Unlock()

	if changed {
		m.persist(snapshot)
	}
	return changed
}

func (m *Manager) persist(sessions []Session) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := m.repo.Save(ctx, sessions); err != nil {
		m.log.Error("failed to save sessions", "error", err)
	}
}

// cloneSessions deep-copies the list. Caller holds mu.
func (m *Manager) cloneSessions() []Session {
	out := make([]Session, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = s.Clone()
	}
	return out
}

// CreateSession prepends a new empty session, makes it active and returns its
// id. Returns "" before Initialize.
func (m *Manager) CreateSession() string {
	var id string
	m.mutate(func() bool {
		s := m.newSession()
		m.sessions = append([]Session{s}, m.sessions...)
		m.activeID = s.ID
		id = s.ID
		return true
	})
	if id != "" {
		m.log.Info("created session", "sessionID", id)
	}
	return id
}

// SelectSession makes id the active session. Unknown ids are ignored.
// Selection is not persisted.
func (m *Manager) SelectSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || m.indexOf(id) < 0 {
		return false
	}
	m.activeID = id
	return true
}

// DeleteSession removes id. If it was active, the first remaining session
// becomes active, or a new empty one is created when none remain.
func (m *Manager) DeleteSession(id string) bool {
	deleted := m.mutate(func() bool {
		i := m.indexOf(id)
		if i < 0 {
			return false
		}
		m.sessions = slices.Delete(m.sessions, i, i+1)

		if len(m.sessions) == 0 {
			m.sessions = []Session{m.newSession()}
			m.activeID = m.sessions[0].ID
		} else if m.activeID == id {
			m.activeID = m.sessions[0].ID
		}
		return true
	})
	if deleted {
		m.log.Info("deleted session", "sessionID", id)
	}
	return deleted
}

// RenameSession sets the title of id. Any string is accepted, including "".
func (m *Manager) RenameSession(id, title string) bool {
	return m.UpdateSession(id, Patch{Title: &title})
}

// Patch lists the fields UpdateSession should replace. Nil fields are kept.
type Patch struct {
	Title    *string
	Messages []Message
}

// UpdateSession merges p into id and refreshes UpdatedAt, even if p is empty.
func (m *Manager) UpdateSession(id string, p Patch) bool {
	return m.mutate(func() bool {
		i := m.indexOf(id)
		if i < 0 {
			return false
		}
		s := &m.sessions[i]
		if p.Title != nil {
			s.Title = *p.Title
		}
		if p.Messages != nil {
			s.Messages = slices.Clone(p.Messages)
		}
		s.UpdatedAt = m.now()
		return true
	})
}

// AppendMessage adds msg to the end of id's message list.
// The list is replaced, never modified in place, so earlier Snapshots stay valid.
func (m *Manager) AppendMessage(id string, msg Message) bool {
	return m.mutate(func() bool {
		i := m.indexOf(id)
		if i < 0 {
			return false
		}
		s := &m.sessions[i]
		next := make([]Message, len(s.Messages), len(s.Messages)+1)
		copy(next, s.Messages)
		s.Messages = append(next, msg)
		s.UpdatedAt = m.now()
		return true
	})
}

// DeriveTitleFromFirstMessage titles id after text. It only applies while the
// session has no messages yet.
func (m *Manager) DeriveTitleFromFirstMessage(id, text string) bool {
	return m.mutate(func() bool {
		i := m.indexOf(id)
		if i < 0 || !m.sessions[i].IsEmpty() {
			return false
		}
		m.sessions[i].Title = DeriveTitle(text)
		m.sessions[i].UpdatedAt = m.now()
		return true
	})
}

// Sessions returns a copy of the list, newest first.
func (m *Manager) Sessions() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cloneSessions()
}

// Get returns a copy of session id.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return Session{}, false
	}
	return m.sessions[i].Clone(), true
}

// Exists reports whether id is in the list.
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(id) >= 0
}

// ActiveID returns the active session id, or "" before Initialize.
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeID
}

// Active returns a copy of the active session.
func (m *Manager) Active() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(m.activeID)
	if i < 0 {
		return Session{}, false
	}
	return m.sessions[i].Clone(), true
}

// SidebarWidth returns the current sidebar width.
func (m *Manager) SidebarWidth() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sidebarWidth
}

// SetSidebarWidth clamps and stores the sidebar width, then persists it.
// It returns the width actually applied.
func (m *Manager) SetSidebarWidth(w int) int {
	w = ClampSidebarWidth(w)

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	if !m.initialized {
		cur := m.sidebarWidth
		m.mu.Unlock()
		return cur
	}
	m.sidebarWidth = w
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.repo.SaveSidebarWidth(ctx, w); err != nil {
		m.log.Error("failed to save sidebar width", "error", err)
	}
	return w
}
