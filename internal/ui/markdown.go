package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer turns markdown into terminal output.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// NewMarkdownRenderer creates a glamour renderer. theme is a glamour
// standard style name or "auto"; wordWrap 0 disables wrapping.
func NewMarkdownRenderer(theme string, wordWrap int) (MarkdownRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	switch theme {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(theme))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return r, nil
}

// PlainRenderer passes markdown through unchanged.
type PlainRenderer struct{}

func (PlainRenderer) Render(markdown string) (string, error) { return markdown, nil }

// renderSafely renders markdown, reporting false if the renderer failed or
// panicked. Partial markdown (an unterminated fence, a half table) must
// never take the session down.
func renderSafely(r MarkdownRenderer, markdown string) (out string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			out, ok = "", false
		}
	}()

	rendered, err := r.Render(markdown)
	if err != nil {
		return "", false
	}
	return rendered, true
}
