// Package clipboard exposes the system clipboard behind a small interface.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes clipboard text.
type Clipboard interface {
	Text() (string, error)
	SetText(text string) error
}

// System is the OS clipboard.
type System struct{}

// Text returns the current clipboard contents.
func (System) Text() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard: unsupported on this platform")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard read: %w", err)
	}
	return text, nil
}

// SetText replaces the clipboard contents.
func (System) SetText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: unsupported on this platform")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}

// Memory is an in-process clipboard. Used when no system clipboard is
// available and in tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns a Memory clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

func (m *Memory) Text() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) SetText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Default returns the system clipboard, or an empty Memory clipboard when
// the platform has none.
func Default() Clipboard {
	if clipboard.Unsupported {
		return NewMemory("")
	}
	return System{}
}
