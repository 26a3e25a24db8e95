package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/ecehelper/internal/practical"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message id prefixes, kept from the stored format so older ids stay readable.
const (
	UserTag      = "user"
	AssistantTag = "assistant"
	ErrorTag     = "error"
)

// DefaultTitle names a session before its first message.
const DefaultTitle = "New conversation"

// TitleMaxLen is the number of characters kept when deriving a title.
const TitleMaxLen = 30

// DefaultSidebarWidth applies when no width was saved or it could not be parsed.
const DefaultSidebarWidth = 280

// Sidebar width bounds, in the same units as the stored value.
const (
	MinSidebarWidth = 200
	MaxSidebarWidth = 500
)

// Message is one committed chat message.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Practical is the structured payload an assistant reply may carry.
	Practical *practical.Result `json:"eceData,omitempty"`
}

// Session is one conversation thread.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy whose message slice is not shared with s.
func (s Session) Clone() Session {
	c := s
	if s.Messages != nil {
		c.Messages = make([]Message, len(s.Messages))
		copy(c.Messages, s.Messages)
	}
	return c
}

// IsEmpty reports whether the session has no messages.
func (s Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// DeriveTitle turns the first message of a session into its title.
// Text longer than TitleMaxLen characters is cut and gets "..." appended.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) > TitleMaxLen {
		return string(runes[:TitleMaxLen]) + "..."
	}
	return text
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.New().String()
}

// NewMessageID returns a fresh message id prefixed with tag, e.g. "user-<uuid>".
func NewMessageID(tag string) string {
	return tag + "-" + uuid.New().String()
}

// ClampSidebarWidth keeps w within the allowed sidebar bounds.
func ClampSidebarWidth(w int) int {
	return min(max(w, MinSidebarWidth), MaxSidebarWidth)
}

// Snapshot is what a Repository returns on load. Has* is false when the
// value was absent or could not be decoded.
type Snapshot struct {
	Sessions        []Session
	HasSessions     bool
	SidebarWidth    int
	HasSidebarWidth bool
}

// Repository persists the session list and the sidebar width.
// Load never fails: unreadable data is reported as absent.
type Repository interface {
	Load(ctx context.Context) Snapshot
	Save(ctx context.Context, sessions []Session) error
	SaveSidebarWidth(ctx context.Context, width int) error
}
