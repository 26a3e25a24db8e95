// Package clipboard copies text to and from the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/ecehelper/internal/logger"
)

var (
	mu          sync.Mutex
	initialized bool

	// backend is swapped out in tests so they never touch the real clipboard.
	backend system = realClipboard{}
)

type system interface {
	Init() error
	ReadText() []byte
	WriteText([]byte)
}

type realClipboard struct{}

func (realClipboard) Init() error { return clipboard.Init() }
func (realClipboard) ReadText() []byte { return clipboard.Read(clipboard.FmtText) }
func (realClipboard) WriteText(b []byte) { clipboard.Write(clipboard.FmtText, b) }

// Init prepares the clipboard. Safe to call more than once.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := backend.Init(); err != nil {
		logger.WithComponent("clipboard").Warn("init failed", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

// WriteText puts text on the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := initLocked(); err != nil {
		return err
	}
	backend.WriteText([]byte(text))
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}

// ReadText returns the clipboard text, or "" if it holds none.
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := initLocked(); err != nil {
		return "", err
	}
	return string(backend.ReadText()), nil
}
