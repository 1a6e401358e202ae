// Package input turns console lines into classified user input.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"scribe/internal/clipboard"
	"scribe/internal/commands"
	"scribe/internal/logging"
)

// Delimiter opens and closes a delimited multi-line capture.
const Delimiter = "'''"

// pasteWords enter paste mode when typed on their own.
var pasteWords = map[string]bool{
	"paste":     true,
	"multiline": true,
	"ml":        true,
}

// Source records where the text of a Parsed input came from.
type Source int

const (
	SourceInline Source = iota
	SourceClipboard
	SourcePaste
	SourceDelimited
)

func (s Source) String() string {
	switch s {
	case SourceInline:
		return "inline"
	case SourceClipboard:
		return "clipboard"
	case SourcePaste:
		return "paste"
	case SourceDelimited:
		return "delimited"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Parsed is a classified input line.
type Parsed struct {
	Command    commands.Command
	HasCommand bool

	// Text is what the command (or the free-text handler) operates on.
	Text   string
	Source Source

	// Raw is the line as the user entered it, after multi-line expansion.
	Raw string
}

// Prompter is told when a multi-line mode starts so it can show a hint.
// It may be nil.
type Prompter interface {
	MultilineStarted(mode Source)
}

// Parser classifies console lines into commands or free text.
type Parser struct {
	registry *commands.Registry
	reader   LineReader
	clip     clipboard.Clipboard
	prompter Prompter
}

// NewParser creates a parser. reader supplies the extra lines read in
// paste and delimited modes.
func NewParser(registry *commands.Registry, reader LineReader, clip clipboard.Clipboard) *Parser {
	return &Parser{registry: registry, reader: reader, clip: clip}
}

// SetPrompter sets the multi-line mode observer.
func (p *Parser) SetPrompter(pr Prompter) {
	p.prompter = pr
}

// Expand applies the multi-line modes to line. Lines that start no mode
// are returned trimmed with SourceInline.
//
// Paste mode is entered by a paste word on its own, or by a command
// followed by a paste word (`\s paste`); lines are read until end of input.
// Delimited mode is entered by a line ending in Delimiter; lines are read
// until one consisting solely of Delimiter.
func (p *Parser) Expand(ctx context.Context, line string) (string, Source, error) {
	trimmed := strings.TrimSpace(line)

	if prefix, ok := p.pastePrefix(trimmed); ok {
		body, err := p.readUntilEOF(ctx)
		if err != nil {
			return "", SourcePaste, err
		}
		return strings.TrimSpace(prefix + " " + body), SourcePaste, nil
	}

	if strings.HasSuffix(trimmed, Delimiter) {
		prefix := strings.TrimSpace(strings.TrimSuffix(trimmed, Delimiter))
		lines, err := p.readUntilDelimiter(ctx)
		if err != nil {
			return "", SourceDelimited, err
		}
		if len(lines) == 0 {
			return trimmed, SourceInline, nil
		}
		return strings.TrimSpace(prefix + " " + strings.Join(lines, "\n")), SourceDelimited, nil
	}

	return trimmed, SourceInline, nil
}

// Classify expands line, resolves a command and, for a command with no
// text, falls back to the clipboard.
func (p *Parser) Classify(ctx context.Context, line string) (Parsed, error) {
	expanded, src, err := p.Expand(ctx, line)
	if err != nil {
		return Parsed{}, err
	}

	cmd, rest, found := p.registry.Resolve(expanded)
	parsed := Parsed{
		Command:    cmd,
		HasCommand: found,
		Text:       rest,
		Source:     src,
		Raw:        expanded,
	}
	if !found || rest != "" {
		return parsed, nil
	}

	text, err := p.clipboardText()
	if err != nil {
		return Parsed{}, err
	}
	parsed.Text = text
	parsed.Source = SourceClipboard
	return parsed, nil
}

func (p *Parser) clipboardText() (string, error) {
	if p.clip == nil {
		return "", ErrNoInputAvailable
	}
	text, err := p.clip.Text()
	if err != nil {
		logging.Warn("clipboard read failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrNoInputAvailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoInputAvailable
	}
	return text, nil
}

func (p *Parser) readUntilEOF(ctx context.Context) (string, error) {
	p.notify(SourcePaste)

	var lines []string
	for {
		line, err := p.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", cancelled(err)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "", ErrNothingEntered
	}
	logging.Debug("paste captured", "lines", len(lines))
	return strings.Join(lines, "\n"), nil
}

func (p *Parser) readUntilDelimiter(ctx context.Context) ([]string, error) {
	p.notify(SourceDelimited)

	var lines []string
	for {
		line, err := p.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, cancelled(err)
		}
		if strings.TrimSpace(line) == Delimiter {
			return lines, nil
		}
		lines = append(lines, line)
	}
}

func (p *Parser) notify(mode Source) {
	if p.prompter != nil {
		p.prompter.MultilineStarted(mode)
	}
}

// pastePrefix reports whether s starts paste mode and returns the command
// trigger that precedes the paste word. The trigger must be registered.
func (p *Parser) pastePrefix(s string) (string, bool) {
	if pasteWords[strings.ToLower(s)] {
		return "", true
	}
	if !strings.HasPrefix(s, `\`) {
		return "", false
	}
	idx := strings.LastIndexAny(s, " \t")
	if idx < 0 || !pasteWords[strings.ToLower(s[idx+1:])] {
		return "", false
	}
	prefix := strings.TrimSpace(s[:idx])
	if strings.ContainsAny(prefix, " \t") {
		return "", false
	}
	if _, rest, ok := p.registry.Resolve(prefix); !ok || rest != "" {
		return "", false
	}
	return prefix, true
}

func cancelled(err error) error {
	if errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled) {
		return ErrCancelled
	}
	return fmt.Errorf("reading multiline input: %w", err)
}
