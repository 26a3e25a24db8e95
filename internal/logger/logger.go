// Package logger writes structured debug logs to a file under /tmp.
//
// The file is opened lazily on first use. Packages grab a pre-attributed
// logger with WithComponent or WithSession and log key/value pairs:
//
//	log := logger.WithComponent("backend")
//	log.Info("request sent", "endpoint", "/api/chat")
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogPath is used when Init is never called.
const DefaultLogPath = "/tmp/ecehelper-debug.log"

const logGlob = "/tmp/ecehelper-*.log"

type sink struct {
	mu    sync.Mutex
	level slog.LevelVar
	file  *os.File
	path  string
	base  *slog.Logger
	tried bool
}

var current = &sink{}

// SetDebug switches between debug and info level. Takes effect immediately,
// including for loggers already handed out.
func SetDebug(enabled bool) {
	if enabled {
		current.level.Set(slog.LevelDebug)
		return
	}
	current.level.Set(slog.LevelInfo)
}

// Init opens path as the log file. Later calls are ignored until Reset.
func Init(path string) error {
	current.mu.Lock()
	defer current.mu.Unlock()

	if current.base != nil {
		return nil
	}
	current.tried = true
	return current.open(path)
}

func (s *sink) open(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	s.file = f
	s.path = path
	s.base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: &s.level}))
	s.base.Info("Logger initialized", "path", path)
	return nil
}

// logger returns the base logger, opening DefaultLogPath on first use.
// A closed or unopenable sink yields a logger that discards everything.
func (s *sink) logger() *slog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.base == nil && !s.tried {
		s.tried = true
		if err := s.open(DefaultLogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if s.base == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.base
}

// WithComponent returns a logger tagged with component=name.
func WithComponent(name string) *slog.Logger {
	return current.logger().With(slog.String("component", name))
}

// WithSession returns a logger tagged with the chat session ID.
func WithSession(sessionID string) *slog.Logger {
	return current.logger().With(slog.String("sessionID", sessionID))
}

// Path returns the active log file, or "" if none is open.
func Path() string {
	current.mu.Lock()
	defer current.mu.Unlock()
	return current.path
}

// Close flushes and closes the log file. Logging afterwards is a no-op.
func Close() {
	current.mu.Lock()
	defer current.mu.Unlock()

	if current.file != nil {
		current.file.Close()
	}
	current.file = nil
	current.base = nil
}

// Reset closes the file and forgets all state so Init can run again.
func Reset() {
	Close()
	current = &sink{}
}

// ClearLogs removes every ecehelper log file from /tmp and reports how many
// were deleted.
func ClearLogs() (int, error) {
	matches, err := filepath.Glob(logGlob)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, p := range matches {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case !os.IsNotExist(err):
			return removed, err
		}
	}
	return removed, nil
}
