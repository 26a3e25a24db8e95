// Package store persists chat sessions and the sidebar width.
//
// A Store encodes values as JSON or plain strings and hands them to a KV
// backend: files in a directory, Redis, or an in-process map. Store
// implements session.Repository.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	perrors "github.com/zhubert/ecehelper/internal/errors"
	"github.com/zhubert/ecehelper/internal/logger"
	"github.com/zhubert/ecehelper/internal/session"
)

// Keys used in every backend. They match the names the web client used in
// browser local storage so exported data stays recognizable.
const (
	SessionsKey     = "ai-tutor-chats"
	SidebarWidthKey = "ai-tutor-sidebar-width"
)

// ErrNotFound is returned by KV.Get for an absent key.
var ErrNotFound = errors.New("key not found")

// KV is a minimal string key-value backend.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error

	// Describe names the backend location for logs and the sessions command.
	Describe() string
}

// Store is a session.Repository over a KV backend.
type Store struct {
	kv  KV
	log *slog.Logger
}

var _ session.Repository = (*Store)(nil)

// New wraps kv.
func New(kv KV) *Store {
	return &Store{kv: kv, log: logger.WithComponent("store")}
}

// Describe names where data is kept.
func (s *Store) Describe() string {
	return s.kv.Describe()
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Load reads sessions and sidebar width. Absent, unreadable or corrupt values
// are reported as absent and logged; Load never fails.
func (s *Store) Load(ctx context.Context) session.Snapshot {
	var snap session.Snapshot

	if raw, ok := s.get(ctx, SessionsKey); ok {
		sessions, err := decodeSessions(raw)
		if err != nil {
			s.log.Warn("ignoring corrupt session data", "location", s.kv.Describe(), "error", err)
		} else {
			snap.Sessions = sessions
			snap.HasSessions = true
		}
	}

	if raw, ok := s.get(ctx, SidebarWidthKey); ok {
		w, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			s.log.Warn("ignoring unparseable sidebar width", "value", raw)
		} else {
			snap.SidebarWidth = w
			snap.HasSidebarWidth = true
		}
	}

	return snap
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false
	}
	if err != nil {
		s.log.Warn("failed to read key", "key", key, "error", perrors.StoreLoadFailed(s.kv.Describe(), err))
		return "", false
	}
	return raw, true
}

// Save replaces the stored session list.
func (s *Store) Save(ctx context.Context, sessions []session.Session) error {
	data, err := encodeSessions(sessions)
	if err != nil {
		return perrors.StoreSaveFailed(s.kv.Describe(), err)
	}
	if err := s.kv.Set(ctx, SessionsKey, data); err != nil {
		return perrors.StoreSaveFailed(s.kv.Describe(), err)
	}
	s.log.Debug("saved sessions", "count", len(sessions))
	return nil
}

// SaveSidebarWidth stores the sidebar width as a decimal string.
func (s *Store) SaveSidebarWidth(ctx context.Context, width int) error {
	if err := s.kv.Set(ctx, SidebarWidthKey, strconv.Itoa(width)); err != nil {
		return perrors.StoreSaveFailed(s.kv.Describe(), err)
	}
	return nil
}

// Clear removes all stored data.
func (s *Store) Clear(ctx context.Context) error {
	for _, key := range []string{SessionsKey, SidebarWidthKey} {
		if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			return perrors.StoreSaveFailed(s.kv.Describe(), err)
		}
	}
	return nil
}

func encodeSessions(sessions []session.Session) (string, error) {
	if sessions == nil {
		sessions = []session.Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeSessions parses the stored list. Times are RFC 3339 strings and come
// back as time.Time; a missing message list becomes an empty one.
func decodeSessions(raw string) ([]session.Session, error) {
	var sessions []session.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Messages == nil {
			sessions[i].Messages = []session.Message{}
		}
	}
	return sessions, nil
}
