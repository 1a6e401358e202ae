package input

import "errors"

var (
	// ErrNoInputAvailable is returned when a command has no inline text and
	// the clipboard is empty.
	ErrNoInputAvailable = errors.New("no input available")

	// ErrCancelled is returned when a paste or delimited capture is
	// interrupted. The caller skips the turn.
	ErrCancelled = errors.New("multiline input cancelled")

	// ErrNothingEntered is returned when paste mode ends without any lines.
	ErrNothingEntered = errors.New("no content entered")

	// ErrInterrupted is returned by a LineReader when its context is
	// cancelled while waiting for a line.
	ErrInterrupted = errors.New("read interrupted")
)
