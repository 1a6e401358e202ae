package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Live is a region of the terminal that is redrawn in place. Each Update
// erases the previous frame before writing the next. On writers that are
// not terminals only the final frame is written.
type Live struct {
	out    *termenv.Output
	tty    bool
	height int
	width  int

	drawn int // rows of the frame currently on screen
}

// LiveOption configures a Live region.
type LiveOption func(*Live)

// WithTTY forces terminal behavior on or off.
func WithTTY(tty bool) LiveOption {
	return func(l *Live) { l.tty = tty }
}

// WithHeight sets the terminal height used to clip frames.
func WithHeight(rows int) LiveOption {
	return func(l *Live) { l.height = rows }
}

// WithWidth sets the terminal width used to count wrapped rows.
func WithWidth(cols int) LiveOption {
	return func(l *Live) { l.width = cols }
}

// NewLive creates a live region writing to w.
func NewLive(w io.Writer, opts ...LiveOption) *Live {
	l := &Live{out: termenv.NewOutput(w)}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		l.tty = true
		if cols, rows, err := term.GetSize(int(f.Fd())); err == nil {
			l.width, l.height = cols, rows
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.height <= 0 {
		l.height = defaultHeight
	}
	if l.width <= 0 {
		l.width = defaultWidth
	}
	return l
}

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// TerminalWidth returns the column count of w, or 0 when w is not a
// terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return cols
}

// Update replaces the visible frame. Frames taller than the terminal show
// their last rows; lines that scrolled off could not be erased again.
func (l *Live) Update(frame string) {
	if !l.tty {
		return
	}
	if l.drawn == 0 {
		l.out.HideCursor()
	}
	l.erase()
	// Wrap at the terminal width so every row on screen is one line we
	// can count and erase.
	l.draw(clip(ansi.Hardwrap(frame, l.width, true), l.height-1))
}

// Final erases the live frame and writes frame in full. The region is
// done afterwards; further Updates start a new region.
func (l *Live) Final(frame string) {
	l.erase()
	l.draw(frame)
	l.drawn = 0
	if l.tty {
		l.out.ShowCursor()
	}
}

// Close erases whatever is on screen without writing a final frame.
func (l *Live) Close() {
	if l.drawn == 0 {
		return
	}
	l.erase()
	l.out.ShowCursor()
}

func (l *Live) erase() {
	if l.tty && l.drawn > 0 {
		l.out.ClearLines(l.drawn)
	}
	l.drawn = 0
}

func (l *Live) draw(frame string) {
	if !strings.HasSuffix(frame, "\n") {
		frame += "\n"
	}
	_, _ = io.WriteString(l.out, frame)
	l.drawn = strings.Count(frame, "\n")
}

// clip keeps the last rows lines of frame.
func clip(frame string, rows int) string {
	if rows <= 0 {
		return frame
	}
	lines := strings.Split(strings.TrimSuffix(frame, "\n"), "\n")
	if len(lines) <= rows {
		return frame
	}
	return strings.Join(lines[len(lines)-rows:], "\n")
}
