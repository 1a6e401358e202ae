package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// LineReader delivers one line of console input at a time, without the
// trailing newline. It returns io.EOF at end of input and ErrInterrupted
// when ctx is cancelled while waiting.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

type lineResult struct {
	line string
	err  error
}

// Console reads lines from an io.Reader on a background goroutine so a
// pending read can be abandoned on interrupt. A line that arrives after
// the read was abandoned is delivered to the next ReadLine call.
type Console struct {
	r     *bufio.Reader
	lines chan lineResult
	done  chan struct{}
	start sync.Once
	stop  sync.Once
}

// NewConsole creates a Console over r.
func NewConsole(r io.Reader) *Console {
	return &Console{
		r:     bufio.NewReader(r),
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}
}

// ReadLine implements LineReader.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	c.start.Do(func() { go c.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

// Close stops the background reader. A read already blocked on the
// underlying reader finishes on its own.
func (c *Console) Close() error {
	c.stop.Do(func() { close(c.done) })
	return nil
}

func (c *Console) pump() {
	defer close(c.lines)
	for {
		line, err := c.r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		// A final line without newline is delivered before the EOF.
		if line != "" && errors.Is(err, io.EOF) {
			if !c.send(lineResult{line: line}) {
				return
			}
		}
		res := lineResult{line: line, err: err}
		if errors.Is(err, io.EOF) {
			res.line = ""
		}
		if !c.send(res) {
			return
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return
		}
	}
}

func (c *Console) send(res lineResult) bool {
	select {
	case c.lines <- res:
		return true
	case <-c.done:
		return false
	}
}
